package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/utils"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create relies on the (session_id, learner_id) unique index to reject
// duplicates, so concurrent submissions of the same review cannot both
// land.
func (r *ReviewRepository) Create(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	err := tx.WithContext(ctx).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrDuplicateReview
	}
	return translate(err)
}

func (r *ReviewRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Learner").
		Where("tutor_id = ?", tutorID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

type ratingAggregate struct {
	Count   int64
	Average float64
}

// Aggregate reads the full current review set for the tutor. Full-set
// re-aggregation, not a running average: incremental updates drift and
// lose writes under concurrency.
func (r *ReviewRepository) Aggregate(ctx context.Context, tx *gorm.DB, tutorID uuid.UUID) (count int64, average float64, err error) {
	var agg ratingAggregate
	err = tx.WithContext(ctx).
		Model(&models.Review{}).
		Where("tutor_id = ?", tutorID).
		Select("count(*) as count, coalesce(avg(rating), 0) as average").
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate reviews: %w", err)
	}
	return agg.Count, agg.Average, nil
}

// LockTutorProfile serializes aggregate recomputation per tutor. Two
// concurrent reviews for the same tutor queue behind this row lock, so
// each recompute sees the other's committed insert.
func (r *ReviewRepository) LockTutorProfile(ctx context.Context, tx *gorm.DB, tutorID uuid.UUID) (models.TutorProfile, error) {
	var profile models.TutorProfile
	err := lockForUpdate(tx.WithContext(ctx)).First(&profile, "user_id = ?", tutorID).Error
	return profile, translate(err)
}

// WriteAggregate is the aggregator's private write path for the derived
// columns.
func (r *ReviewRepository) WriteAggregate(ctx context.Context, tx *gorm.DB, tutorID uuid.UUID, rating float64, totalReviews int64) error {
	err := tx.WithContext(ctx).
		Model(&models.TutorProfile{}).
		Where("user_id = ?", tutorID).
		Updates(map[string]interface{}{
			"rating":        rating,
			"total_reviews": totalReviews,
		}).Error
	return translate(err)
}
