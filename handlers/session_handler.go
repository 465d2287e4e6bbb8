package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type BookSessionRequest struct {
	TutorID         string  `json:"tutor_id" validate:"required,uuid"`
	Subject         string  `json:"subject" validate:"required"`
	SessionType     string  `json:"session_type" validate:"required,oneof=one_on_one group"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,gt=0"`
	Notes           *string `json:"notes"`
}

func (h *SessionHandler) BookSession(c *fiber.Ctx) error {
	learnerID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req BookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tutorID, _ := uuid.Parse(req.TutorID)
	scheduledAt, _ := time.Parse(time.RFC3339, req.ScheduledAt)

	session, err := h.sessions.Book(c.UserContext(), learnerID, services.BookSessionInput{
		TutorID:         tutorID,
		Subject:         req.Subject,
		SessionType:     models.SessionType(req.SessionType),
		ScheduledAt:     scheduledAt,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// transition handles accept, decline and complete; each route binds the
// event so the URL stays explicit.
func (h *SessionHandler) transition(c *fiber.Ctx, ev models.SessionEvent) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := parseUUIDParam(c, "sessionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.sessions.Transition(c.UserContext(), sessionID, actorID, ev)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(session)
}

func (h *SessionHandler) AcceptSession(c *fiber.Ctx) error {
	return h.transition(c, models.EventAccept)
}

func (h *SessionHandler) DeclineSession(c *fiber.Ctx) error {
	return h.transition(c, models.EventDecline)
}

func (h *SessionHandler) CompleteSession(c *fiber.Ctx) error {
	return h.transition(c, models.EventComplete)
}

func (h *SessionHandler) GetMySessions(c *fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var status *models.SessionStatus
	if raw := c.Query("status"); raw != "" {
		parsed := models.SessionStatus(raw)
		switch parsed {
		case models.StatusPending, models.StatusConfirmed, models.StatusCompleted, models.StatusCancelled:
			status = &parsed
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status filter"})
		}
	}

	sessions, err := h.sessions.ListForActor(c.UserContext(), actorID, status)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(sessions)
}

func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	actorID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := parseUUIDParam(c, "sessionId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := h.sessions.Get(c.UserContext(), sessionID, actorID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(session)
}
