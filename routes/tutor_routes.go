package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tutorlink/tutorlink/handlers"
	"github.com/tutorlink/tutorlink/middleware"
)

func TutorRoutes(app *fiber.App, h *handlers.TutorHandler, protected fiber.Handler) {
	api := app.Group("/api/v1")

	tutors := api.Group("/tutors", protected)
	tutors.Get("", h.ListTutors)
	tutors.Get("/:tutorId", h.GetTutorProfile)
	tutors.Get("/:tutorId/reviews", h.GetTutorReviews)

	me := api.Group("/tutor/profile", protected, middleware.TutorRequired())
	me.Put("/me", h.UpdateMyTutorProfile)
}
