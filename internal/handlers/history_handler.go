package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/services"
)

type HistoryHandler struct {
	analyzer     services.AnalyzerService
	defaultLimit int
	log          *zap.Logger
}

func NewHistoryHandler(analyzer services.AnalyzerService, defaultLimit int, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		analyzer:     analyzer,
		defaultLimit: defaultLimit,
		log:          log,
	}
}

// HandleHistory handles GET /history?limit=N.
func (h *HistoryHandler) HandleHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.defaultLimit)
	if limit <= 0 {
		limit = h.defaultLimit
	}

	records, err := h.analyzer.History(limit)
	if err != nil {
		h.log.Error("failed to load history", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "An error occurred: failed to load history")
	}

	return c.JSON(models.HistoryResponse{
		History: records,
		Total:   len(records),
	})
}
