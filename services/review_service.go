package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/cache"
	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/monitoring"
	"github.com/tutorlink/tutorlink/policy"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/tracing"
	"github.com/tutorlink/tutorlink/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService accepts one review per (session, learner) pair and owns
// the tutor's derived rating/total_reviews columns.
type ReviewService struct {
	db        *gorm.DB
	users     *repository.UserRepository
	sessions  *repository.SessionRepository
	reviews   *repository.ReviewRepository
	directory *cache.TutorDirectory
	log       *zap.Logger
}

func NewReviewService(db *gorm.DB, users *repository.UserRepository, sessions *repository.SessionRepository, reviews *repository.ReviewRepository, directory *cache.TutorDirectory, log *zap.Logger) *ReviewService {
	return &ReviewService{db: db, users: users, sessions: sessions, reviews: reviews, directory: directory, log: log}
}

// Submit persists the review and recomputes the tutor's aggregate in
// one transaction. The tutor profile row is locked first, so two
// concurrent reviews for the same tutor serialize and neither
// recompute misses the other's insert. All checks run inside the
// transaction to close the gap between check and write.
func (s *ReviewService) Submit(ctx context.Context, sessionID, learnerID uuid.UUID, rating int, comment string) (models.Review, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ReviewService.Submit")
	defer span.End()

	if rating < 1 || rating > 5 {
		return models.Review{}, fmt.Errorf("%w: rating must be between 1 and 5", utils.ErrConstraintViolation)
	}

	actor, err := s.users.FindByID(ctx, learnerID)
	if err != nil {
		return models.Review{}, err
	}

	var review models.Review
	err = s.db.Transaction(func(tx *gorm.DB) error {
		session, err := s.sessions.LockByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		if !policy.CanSubmitReview(actor, session) {
			return utils.ErrForbidden
		}
		if session.Status != models.StatusCompleted {
			return utils.ErrForbidden
		}

		if _, err := s.reviews.LockTutorProfile(ctx, tx, session.TutorID); err != nil {
			return err
		}

		review = models.Review{
			SessionID: session.ID,
			LearnerID: session.LearnerID,
			TutorID:   session.TutorID,
			Rating:    rating,
			Comment:   comment,
		}
		if err := s.reviews.Create(ctx, tx, &review); err != nil {
			return err
		}

		count, average, err := s.reviews.Aggregate(ctx, tx, session.TutorID)
		if err != nil {
			return err
		}
		return s.reviews.WriteAggregate(ctx, tx, session.TutorID, roundRating(average), count)
	})
	if err != nil {
		return models.Review{}, err
	}

	s.directory.Invalidate(ctx)
	monitoring.ReviewsSubmitted.Inc()
	s.log.Info("review submitted",
		zap.String("session_id", sessionID.String()),
		zap.String("tutor_id", review.TutorID.String()),
		zap.Int("rating", rating),
	)
	return review, nil
}

// ListForTutor returns a tutor's reviews, newest first. Readable by any
// authenticated actor.
func (s *ReviewService) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Review, error) {
	return s.reviews.ListByTutor(ctx, tutorID)
}

// roundRating is the display convention for the stored aggregate: two
// decimal places.
func roundRating(average float64) float64 {
	return math.Round(average*100) / 100
}
