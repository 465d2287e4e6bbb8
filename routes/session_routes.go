package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlink/tutorlink/handlers"
)

func SessionRoutes(app *fiber.App, sessions *handlers.SessionHandler, reviews *handlers.ReviewHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")

	group := api.Group("/sessions", protected)
	group.Post("", sessions.BookSession)
	group.Get("/me", sessions.GetMySessions)
	group.Get("/:sessionId", sessions.GetSession)
	group.Post("/:sessionId/accept", sessions.AcceptSession)
	group.Post("/:sessionId/decline", sessions.DeclineSession)
	group.Post("/:sessionId/complete", sessions.CompleteSession)
	group.Post("/:sessionId/review", reviews.SubmitReview)
}
