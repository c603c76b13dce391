package handlers

import (
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type StatisticsHandler struct {
	stats *services.StatisticsService
	recs  *services.RecommendationService
}

func NewStatisticsHandler(stats *services.StatisticsService, recs *services.RecommendationService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats, recs: recs}
}

func (h *StatisticsHandler) GetStatistics(c *fiber.Ctx) error {
	viewer, err := middleware.GetViewer(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	resp, err := h.stats.GetStatistics(c.UserContext(), c.Params("employeeId"), viewer)
	if err != nil {
		return serviceError(c, err, "get statistics")
	}
	return c.JSON(resp)
}

func (h *StatisticsHandler) GetRecommendations(c *fiber.Ctx) error {
	viewer, err := middleware.GetViewer(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	recs, err := h.recs.GetRecommendations(c.UserContext(), c.Params("employeeId"), viewer)
	if err != nil {
		return serviceError(c, err, "get recommendations")
	}
	return c.JSON(recs)
}
