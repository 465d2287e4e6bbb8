package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tutorlink/tutorlink/services"
)

type TutorHandler struct {
	tutors  *services.TutorService
	reviews *services.ReviewService
}

func NewTutorHandler(tutors *services.TutorService, reviews *services.ReviewService) *TutorHandler {
	return &TutorHandler{tutors: tutors, reviews: reviews}
}

// ListTutors serves the directory, best rated first, with the account
// embedded in each profile.
func (h *TutorHandler) ListTutors(c *fiber.Ctx) error {
	var minRating *float64
	if raw := c.Query("min_rating"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid min_rating"})
		}
		minRating = &parsed
	}

	profiles, err := h.tutors.List(c.UserContext(), minRating)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profiles)
}

func (h *TutorHandler) GetTutorProfile(c *fiber.Ctx) error {
	tutorID, err := parseUUIDParam(c, "tutorId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	profile, err := h.tutors.Get(c.UserContext(), tutorID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profile)
}

func (h *TutorHandler) GetTutorReviews(c *fiber.Ctx) error {
	tutorID, err := parseUUIDParam(c, "tutorId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutor id"})
	}

	reviews, err := h.reviews.ListForTutor(c.UserContext(), tutorID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(reviews)
}

type UpdateTutorProfileRequest struct {
	Bio          *string         `json:"bio"`
	Skills       *[]string       `json:"skills"`
	HourlyRate   *float64        `json:"hourly_rate" validate:"omitempty,gte=0"`
	Availability json.RawMessage `json:"availability"`
}

// UpdateMyTutorProfile patches bio/skills/hourly_rate/availability.
// The derived rating fields are not reachable from here.
func (h *TutorHandler) UpdateMyTutorProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req UpdateTutorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := h.tutors.UpdateProfile(c.UserContext(), userID, services.UpdateTutorProfileInput{
		Bio:          req.Bio,
		Skills:       req.Skills,
		HourlyRate:   req.HourlyRate,
		Availability: req.Availability,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profile)
}
