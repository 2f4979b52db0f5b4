package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/handlers"
	"github.com/resumatch/resumatch/internal/repositories"
	"github.com/resumatch/resumatch/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the static frontend",
	RunE: func(_ *cobra.Command, _ []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	cfg, lg, err := setup()
	if err != nil {
		return err
	}
	defer lg.Sync()

	lg.Info("starting the resumatch api", zap.String("version", version), zap.String("env", cfg.Server.Env))

	db, err := config.InitDatabase(cfg, lg)
	if err != nil {
		lg.Error("failed to initialize database", zap.Error(err))
		return err
	}

	historyRepo := repositories.NewHistoryRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		lg.Error("failed to create upload directory", zap.Error(err))
		return err
	}
	extractor := services.NewTextExtractor()

	analyzer, err := newAnalyzer(cfg, lg)
	if err != nil {
		lg.Error("failed to load keyword weights", zap.Error(err))
		return err
	}
	analyzerService := services.NewAnalyzerService(analyzer, historyRepo, cfg.Worker.Concurrency, lg)
	lg.Debug("services initialized",
		zap.Int("max_features", cfg.Analysis.MaxFeatures),
		zap.Int("top_keywords", cfg.Analysis.TopKeywords),
		zap.Float64("min_score", cfg.Analysis.MinScore),
		zap.Int("batch_concurrency", cfg.Worker.Concurrency),
	)

	app := handlers.NewApp(
		handlers.NewAnalyzeHandler(analyzerService, storageService, extractor, cfg.Storage.MaxFileSize, lg),
		handlers.NewUploadHandler(storageService, extractor, cfg.Storage.MaxFileSize),
		handlers.NewHistoryHandler(analyzerService, cfg.Server.HistoryLimit, lg),
		handlers.AppOptions{
			// two files plus form fields
			BodyLimit: int(2*cfg.Storage.MaxFileSize) + 1<<20,
			StaticDir: cfg.Server.StaticDir,
			AccessLog: true,
		},
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		lg.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			lg.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	lg.Info("server starting", zap.String("addr", addr), zap.String("static_dir", cfg.Server.StaticDir))

	if err := app.Listen(addr); err != nil {
		lg.Error("failed to start server", zap.Error(err))
		return err
	}

	closeDB(db, lg)
	lg.Info("server stopped")
	return nil
}
