package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/participant-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Participants *handlers.ParticipantsHandler
}

// RegisterRoutes wires HTTP routes. Static segments are registered before the
// :email params so /details and /details/deleted never match as addresses.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	participants := app.Group("/participants")
	participants.Get("/", cfg.Participants.List)
	participants.Get("/details", cfg.Participants.ListActive)
	participants.Get("/details/deleted", cfg.Participants.ListDeleted)
	participants.Get("/details/:email", cfg.Participants.GetDetails)
	participants.Get("/work/:email", cfg.Participants.GetWork)
	participants.Get("/home/:email", cfg.Participants.GetHome)
	participants.Get("/history/:email", cfg.Participants.GetHistory)
	participants.Post("/", cfg.Participants.Create)
	participants.Put("/", cfg.Participants.Replace)
	participants.Delete("/:email", cfg.Participants.SoftDelete)

	// Catch-all for unmatched routes.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"msg": "no route handler found"})
	})
}
