package handlers

import (
	"github.com/gofiber/fiber/v2"

	"humanwrk/job-recommender/internal/models"
	"humanwrk/job-recommender/internal/services"
)

// IndexStatusProvider is the read side of the index manager.
type IndexStatusProvider interface {
	Status() models.IndexStatusResponse
}

type IndexHandler struct {
	index     IndexStatusProvider
	refresher services.Refresher
}

func NewIndexHandler(index IndexStatusProvider, refresher services.Refresher) *IndexHandler {
	return &IndexHandler{
		index:     index,
		refresher: refresher,
	}
}

// HandleStatus handles GET /api/v1/index
func (h *IndexHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.index.Status())
}

// HandleRebuild handles POST /api/v1/index/rebuild
func (h *IndexHandler) HandleRebuild(c *fiber.Ctx) error {
	if !h.refresher.Trigger() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A rebuild is already queued",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "queued",
	})
}
