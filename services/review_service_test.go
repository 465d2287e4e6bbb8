package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tutorlink/tutorlink/cache"
	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/testutil"
	"github.com/tutorlink/tutorlink/utils"
	"gorm.io/gorm"
)

func newReviewService(tb testing.TB, db *gorm.DB) *ReviewService {
	tb.Helper()
	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	reviews := repository.NewReviewRepository(db)
	directory := cache.NewTutorDirectory(nil)
	return NewReviewService(db, users, sessions, reviews, directory, testutil.Logger())
}

func TestSubmit_PersistsReviewAndAggregate(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)
	session := testutil.CreateSession(t, db, tutor.ID, learner.ID, models.StatusCompleted)

	review, err := svc.Submit(ctx, session.ID, learner.ID, 5, "great")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if review.TutorID != tutor.ID || review.LearnerID != learner.ID {
		t.Fatal("review must denormalize the session's participants")
	}

	profile := testutil.TutorProfile(t, db, tutor.ID)
	if profile.Rating != 5.0 {
		t.Fatalf("expected rating 5.0, got %v", profile.Rating)
	}
	if profile.TotalReviews != 1 {
		t.Fatalf("expected total_reviews 1, got %d", profile.TotalReviews)
	}
}

func TestSubmit_DuplicateReview(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)
	session := testutil.CreateSession(t, db, tutor.ID, learner.ID, models.StatusCompleted)

	if _, err := svc.Submit(ctx, session.ID, learner.ID, 4, "good"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(ctx, session.ID, learner.ID, 1, "changed my mind")
	if !errors.Is(err, utils.ErrDuplicateReview) {
		t.Fatalf("expected ErrDuplicateReview, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Review{}).Where("session_id = ?", session.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single stored review, got %d", count)
	}

	profile := testutil.TutorProfile(t, db, tutor.ID)
	if profile.Rating != 4.0 || profile.TotalReviews != 1 {
		t.Fatalf("aggregate must be unchanged, got rating=%v total=%d", profile.Rating, profile.TotalReviews)
	}
}

func TestSubmit_RequiresCompletedSession(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)

	for _, status := range []models.SessionStatus{models.StatusPending, models.StatusConfirmed, models.StatusCancelled} {
		session := testutil.CreateSession(t, db, tutor.ID, learner.ID, status)
		if _, err := svc.Submit(ctx, session.ID, learner.ID, 5, ""); !errors.Is(err, utils.ErrForbidden) {
			t.Fatalf("status %s: expected ErrForbidden, got %v", status, err)
		}
	}
}

func TestSubmit_OnlySessionLearner(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)
	outsider := testutil.CreateLearner(t, db)
	session := testutil.CreateSession(t, db, tutor.ID, learner.ID, models.StatusCompleted)

	if _, err := svc.Submit(ctx, session.ID, tutor.ID, 5, ""); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("tutor self-review: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Submit(ctx, session.ID, outsider.ID, 5, ""); !errors.Is(err, utils.ErrForbidden) {
		t.Fatalf("outsider review: expected ErrForbidden, got %v", err)
	}
}

func TestSubmit_RatingBounds(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)
	session := testutil.CreateSession(t, db, tutor.ID, learner.ID, models.StatusCompleted)

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Submit(ctx, session.ID, learner.ID, rating, ""); !errors.Is(err, utils.ErrConstraintViolation) {
			t.Fatalf("rating %d: expected ErrConstraintViolation, got %v", rating, err)
		}
	}
}

func TestSubmit_AggregateIsFullSetMean(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)

	ratings := []int{5, 4, 4}
	for _, rating := range ratings {
		learner := testutil.CreateLearner(t, db)
		session := testutil.CreateSession(t, db, tutor.ID, learner.ID, models.StatusCompleted)
		if _, err := svc.Submit(ctx, session.ID, learner.ID, rating, ""); err != nil {
			t.Fatalf("submit rating %d: %v", rating, err)
		}
	}

	profile := testutil.TutorProfile(t, db, tutor.ID)
	if profile.TotalReviews != int64(len(ratings)) {
		t.Fatalf("expected %d reviews, got %d", len(ratings), profile.TotalReviews)
	}
	// mean(5,4,4) = 4.333..., stored rounded to two decimals.
	if profile.Rating != 4.33 {
		t.Fatalf("expected rating 4.33, got %v", profile.Rating)
	}
}

func TestSubmit_AggregatesPerTutorAreIndependent(t *testing.T) {
	db := testutil.DB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutorA := testutil.CreateTutor(t, db)
	tutorB := testutil.CreateTutor(t, db)
	learner := testutil.CreateLearner(t, db)

	sessionA := testutil.CreateSession(t, db, tutorA.ID, learner.ID, models.StatusCompleted)
	sessionB := testutil.CreateSession(t, db, tutorB.ID, learner.ID, models.StatusCompleted)

	if _, err := svc.Submit(ctx, sessionA.ID, learner.ID, 2, ""); err != nil {
		t.Fatalf("submit A: %v", err)
	}
	if _, err := svc.Submit(ctx, sessionB.ID, learner.ID, 5, ""); err != nil {
		t.Fatalf("submit B: %v", err)
	}

	profileA := testutil.TutorProfile(t, db, tutorA.ID)
	profileB := testutil.TutorProfile(t, db, tutorB.ID)
	if profileA.Rating != 2.0 || profileA.TotalReviews != 1 {
		t.Fatalf("tutor A aggregate wrong: rating=%v total=%d", profileA.Rating, profileA.TotalReviews)
	}
	if profileB.Rating != 5.0 || profileB.TotalReviews != 1 {
		t.Fatalf("tutor B aggregate wrong: rating=%v total=%d", profileB.Rating, profileB.TotalReviews)
	}
}

// Concurrent submissions for the same tutor must all land in the final
// aggregate. Needs real concurrent writers, so postgres only.
func TestSubmit_ConcurrentSameTutor(t *testing.T) {
	db := testutil.PostgresDB(t)
	svc := newReviewService(t, db)
	ctx := context.Background()
	tutor := testutil.CreateTutor(t, db)

	const n = 8
	sessions := make([]models.Session, n)
	learners := make([]models.User, n)
	for i := 0; i < n; i++ {
		learners[i] = testutil.CreateLearner(t, db)
		sessions[i] = testutil.CreateSession(t, db, tutor.ID, learners[i].ID, models.StatusCompleted)
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(ctx, sessions[i].ID, learners[i].ID, 4, "")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent submit: %v", err)
		}
	}

	profile := testutil.TutorProfile(t, db, tutor.ID)
	if profile.TotalReviews != n {
		t.Fatalf("lost update: expected %d reviews in aggregate, got %d", n, profile.TotalReviews)
	}
	if profile.Rating != 4.0 {
		t.Fatalf("expected rating 4.0, got %v", profile.Rating)
	}
}
