package jobs

import (
	"context"
	"math"

	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileAggregatesJob re-derives every tutor's rating/total_reviews
// from the review table and repairs any drift. The aggregator keeps the
// columns correct transactionally; this is the audit that proves it.
type ReconcileAggregatesJob struct {
	db      *gorm.DB
	reviews *repository.ReviewRepository
	log     *zap.Logger
}

func NewReconcileAggregatesJob(db *gorm.DB, reviews *repository.ReviewRepository, log *zap.Logger) *ReconcileAggregatesJob {
	return &ReconcileAggregatesJob{db: db, reviews: reviews, log: log}
}

func (j *ReconcileAggregatesJob) Run() {
	j.log.Info("Running job: ReconcileAggregates...")
	ctx := context.Background()

	var profiles []models.TutorProfile
	if err := j.db.WithContext(ctx).Find(&profiles).Error; err != nil {
		j.log.Error("failed to list tutor profiles", zap.Error(err))
		return
	}

	repaired := 0
	for _, profile := range profiles {
		err := j.db.Transaction(func(tx *gorm.DB) error {
			locked, err := j.reviews.LockTutorProfile(ctx, tx, profile.UserID)
			if err != nil {
				return err
			}

			count, average, err := j.reviews.Aggregate(ctx, tx, locked.UserID)
			if err != nil {
				return err
			}
			rating := math.Round(average*100) / 100

			if locked.TotalReviews == count && locked.Rating == rating {
				return nil
			}

			j.log.Warn("repairing drifted tutor aggregate",
				zap.String("tutor_id", locked.UserID.String()),
				zap.Float64("stored_rating", locked.Rating),
				zap.Float64("derived_rating", rating),
				zap.Int64("stored_reviews", locked.TotalReviews),
				zap.Int64("derived_reviews", count),
			)
			repaired++
			return j.reviews.WriteAggregate(ctx, tx, locked.UserID, rating, count)
		})
		if err != nil {
			j.log.Error("failed to reconcile tutor aggregate",
				zap.String("tutor_id", profile.UserID.String()),
				zap.Error(err),
			)
		}
	}

	if repaired == 0 {
		j.log.Info("No drifted aggregates found.")
		return
	}
	j.log.Info("Repaired drifted aggregate(s).", zap.Int("count", repaired))
}
