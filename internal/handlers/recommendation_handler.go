package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"humanwrk/job-recommender/internal/models"
	"humanwrk/job-recommender/internal/services"
)

type RecommendationHandler struct {
	service services.RecommendationService
	log     *zap.Logger
}

func NewRecommendationHandler(service services.RecommendationService, log *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		log:     log,
	}
}

// HandleRecommend handles POST /recommendations
func (h *RecommendationHandler) HandleRecommend(c *fiber.Ctx) error {
	var req models.RecommendationRequest

	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request payload",
			})
		}
	}

	resp, err := h.service.Recommend(c.UserContext(), req)
	if err != nil {
		return h.writeError(c, req, err)
	}

	return c.JSON(resp)
}

func (h *RecommendationHandler) writeError(c *fiber.Ctx, req models.RecommendationRequest, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingIdentifier):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "applicant_id or job_id is required",
		})
	case errors.Is(err, services.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrJobNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	case errors.Is(err, services.ErrIndexNotReady):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Job index is not ready",
		})
	}

	h.log.Error("recommendation failed",
		zap.String("applicant_id", req.ApplicantID),
		zap.String("job_id", req.JobID),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to compute recommendations",
	})
}
