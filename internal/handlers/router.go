package handlers

import (
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type AppOptions struct {
	BodyLimit int
	StaticDir string
	AccessLog bool
}

// NewApp builds the fiber app with middleware and every route. API routes are
// served both at the root and under /api/v1.
func NewApp(
	analyzeHandler *AnalyzeHandler,
	uploadHandler *UploadHandler,
	historyHandler *HistoryHandler,
	opts AppOptions,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ResuMatch API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	for _, r := range []fiber.Router{app.Group("/api/v1"), app} {
		r.Get("/health", HandleHealth)
		r.Post("/analyze", analyzeHandler.HandleAnalyze)
		r.Post("/analyze/batch", analyzeHandler.HandleBatch)
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Get("/history", historyHandler.HandleHistory)
	}

	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			app.Static("/", opts.StaticDir)
		}
	}

	return app
}

// HandleHealth handles GET /health.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"message": "ResuMatch API is running",
	})
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
