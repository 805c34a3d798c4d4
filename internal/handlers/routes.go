package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "job-recommendation-api"

// RegisterRoutes mounts the API. The recommendation endpoint is served both
// at the root and under /api/v1.
func RegisterRoutes(app *fiber.App, recommendations *RecommendationHandler, index *IndexHandler) {
	app.Get("/health", HandleHealth)
	app.Post("/recommendations", recommendations.HandleRecommend)

	api := app.Group("/api/v1")
	api.Get("/health", HandleHealth)
	api.Post("/recommendations", recommendations.HandleRecommend)
	api.Get("/index", index.HandleStatus)
	api.Post("/index/rebuild", index.HandleRebuild)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Job Recommendation API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /recommendations",
				"GET /api/v1/index",
				"POST /api/v1/index/rebuild",
			},
		})
	})
}

// HandleHealth handles GET /health
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
		"time":    time.Now(),
	})
}
