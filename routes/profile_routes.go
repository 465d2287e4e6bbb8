package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlink/tutorlink/handlers"
)

func ProfileRoutes(app *fiber.App, h *handlers.ProfileHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile", protected)
	profile.Get("/me", h.GetMe)
	profile.Patch("/me", h.UpdateMe)

	accounts := api.Group("/accounts", protected)
	accounts.Get("/:accountId", h.GetAccount)
}
