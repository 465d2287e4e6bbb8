package jobs

import (
	"testing"

	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/testutil"
)

func TestReconcileRepairsDriftedAggregate(t *testing.T) {
	db := testutil.DB(t)
	tutor := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)
	session := testutil.CreateSession(t, db, tutor.ID, learner.ID, models.StatusCompleted)

	review := models.Review{
		SessionID: session.ID,
		LearnerID: learner.ID,
		TutorID:   tutor.ID,
		Rating:    4,
	}
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("seed review: %v", err)
	}

	// Corrupt the derived columns behind the aggregator's back.
	if err := db.Model(&models.TutorProfile{}).Where("user_id = ?", tutor.ID).
		Updates(map[string]interface{}{"rating": 1.0, "total_reviews": 99}).Error; err != nil {
		t.Fatalf("corrupt aggregate: %v", err)
	}

	job := NewReconcileAggregatesJob(db, repository.NewReviewRepository(db), testutil.Logger())
	job.Run()

	profile := testutil.TutorProfile(t, db, tutor.ID)
	if profile.Rating != 4.0 || profile.TotalReviews != 1 {
		t.Fatalf("expected repaired aggregate, got rating=%v total=%d", profile.Rating, profile.TotalReviews)
	}
}

func TestReconcileLeavesCorrectAggregatesAlone(t *testing.T) {
	db := testutil.DB(t)
	tutor := testutil.CreateTutor(t, db)

	job := NewReconcileAggregatesJob(db, repository.NewReviewRepository(db), testutil.Logger())
	job.Run()

	profile := testutil.TutorProfile(t, db, tutor.ID)
	if profile.Rating != 0 || profile.TotalReviews != 0 {
		t.Fatalf("zero-review tutor must stay at zero, got rating=%v total=%d", profile.Rating, profile.TotalReviews)
	}
}
