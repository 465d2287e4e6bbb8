package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/monitoring"
	"github.com/tutorlink/tutorlink/policy"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/tracing"
	"github.com/tutorlink/tutorlink/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService owns the session lifecycle: booking creates a pending
// session, the state machine in models governs every later move.
type SessionService struct {
	db       *gorm.DB
	users    *repository.UserRepository
	profiles *repository.TutorProfileRepository
	sessions *repository.SessionRepository
	log      *zap.Logger
}

func NewSessionService(db *gorm.DB, users *repository.UserRepository, profiles *repository.TutorProfileRepository, sessions *repository.SessionRepository, log *zap.Logger) *SessionService {
	return &SessionService{db: db, users: users, profiles: profiles, sessions: sessions, log: log}
}

type BookSessionInput struct {
	TutorID         uuid.UUID
	Subject         string
	SessionType     models.SessionType
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           *string
}

// Book creates a pending session for the acting learner. The actor must
// be a learner booking for themselves, the tutor must be a distinct
// account carrying the tutor role, and the slot must not be in the past.
func (s *SessionService) Book(ctx context.Context, actorID uuid.UUID, in BookSessionInput) (models.Session, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SessionService.Book")
	defer span.End()

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return models.Session{}, err
	}
	if !policy.CanBookSession(actor, actorID, in.TutorID) {
		return models.Session{}, utils.ErrForbidden
	}

	tutor, err := s.users.FindByID(ctx, in.TutorID)
	if err != nil {
		return models.Session{}, err
	}
	if tutor.Role != models.RoleTutor {
		return models.Session{}, fmt.Errorf("%w: booked account is not a tutor", utils.ErrConstraintViolation)
	}

	if in.Subject == "" {
		return models.Session{}, fmt.Errorf("%w: subject is required", utils.ErrConstraintViolation)
	}
	if !in.SessionType.Valid() {
		return models.Session{}, fmt.Errorf("%w: unknown session type %q", utils.ErrConstraintViolation, in.SessionType)
	}
	if in.DurationMinutes <= 0 {
		return models.Session{}, fmt.Errorf("%w: duration must be positive", utils.ErrConstraintViolation)
	}
	if in.ScheduledAt.Before(time.Now()) {
		return models.Session{}, fmt.Errorf("%w: scheduled time cannot be in the past", utils.ErrConstraintViolation)
	}

	session := models.Session{
		TutorID:         tutor.ID,
		LearnerID:       actor.ID,
		Subject:         in.Subject,
		SessionType:     in.SessionType,
		ScheduledAt:     in.ScheduledAt,
		DurationMinutes: in.DurationMinutes,
		Status:          models.StatusPending,
		Notes:           in.Notes,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return models.Session{}, err
	}

	monitoring.SessionsBooked.Inc()
	s.log.Info("session booked",
		zap.String("session_id", session.ID.String()),
		zap.String("tutor_id", tutor.ID.String()),
		zap.String("learner_id", actor.ID.String()),
	)
	return s.sessions.FindByID(ctx, session.ID)
}

// Transition applies ev to the session on behalf of actorID. The policy
// layer gates participants first; the per-event actor rule and the
// state machine are re-checked here so an out-of-band caller cannot
// bypass either.
func (s *SessionService) Transition(ctx context.Context, sessionID, actorID uuid.UUID, ev models.SessionEvent) (models.Session, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SessionService.Transition")
	defer span.End()

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return models.Session{}, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessions.LockByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if !policy.CanTransitionSession(actor, session) {
			return utils.ErrForbidden
		}

		switch ev {
		case models.EventAccept, models.EventDecline:
			if actor.ID != session.TutorID {
				return utils.ErrForbidden
			}
		case models.EventComplete:
			// Either participant may complete.
		default:
			return &utils.InvalidTransitionError{From: string(session.Status), Event: string(ev)}
		}

		next, err := session.Status.Next(ev)
		if err != nil {
			return err
		}

		session.Status = next
		if ev == models.EventAccept {
			link := utils.GenerateMeetingLink()
			session.MeetingLink = &link
		}
		return s.sessions.Save(ctx, tx, &session)
	})
	if err != nil {
		return models.Session{}, err
	}

	monitoring.SessionTransitions.WithLabelValues(string(ev)).Inc()
	s.log.Info("session transition applied",
		zap.String("session_id", sessionID.String()),
		zap.String("event", string(ev)),
	)
	return s.sessions.FindByID(ctx, sessionID)
}

// ListForActor returns the actor's sessions, optionally filtered by
// status. Participation is the only visibility rule, so the query is
// already scoped to it.
func (s *SessionService) ListForActor(ctx context.Context, actorID uuid.UUID, status *models.SessionStatus) ([]models.Session, error) {
	ctx, span := tracing.Tracer.Start(ctx, "SessionService.ListForActor")
	defer span.End()

	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}
	return s.sessions.ListForParticipant(ctx, actorID, status)
}

// Get returns one session, visible only to its participants.
func (s *SessionService) Get(ctx context.Context, sessionID, actorID uuid.UUID) (models.Session, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return models.Session{}, err
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}
	if !policy.CanReadSession(actor, session) {
		return models.Session{}, utils.ErrForbidden
	}
	return session, nil
}
