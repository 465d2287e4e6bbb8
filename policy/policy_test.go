package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
)

func learner() models.User {
	return models.User{ID: uuid.New(), Role: models.RoleLearner}
}

func tutor() models.User {
	return models.User{ID: uuid.New(), Role: models.RoleTutor}
}

func TestAccountPolicy(t *testing.T) {
	a, b := learner(), tutor()

	if !CanReadAccount(a) || !CanReadAccount(b) {
		t.Fatal("any authenticated actor may read accounts")
	}
	if !CanUpdateAccount(a, a) {
		t.Fatal("actor may update their own account")
	}
	if CanUpdateAccount(a, b) {
		t.Fatal("actor may not update another account")
	}
}

func TestTutorProfilePolicy(t *testing.T) {
	owner := tutor()
	profile := models.TutorProfile{UserID: owner.ID}

	if !CanUpdateTutorProfile(owner, profile) {
		t.Fatal("owning tutor may update their profile")
	}
	if CanUpdateTutorProfile(tutor(), profile) {
		t.Fatal("another tutor may not update the profile")
	}

	// A learner account may not update a profile even if ids match; the
	// role gate is part of the rule, not just ownership.
	impostor := models.User{ID: owner.ID, Role: models.RoleLearner}
	if CanUpdateTutorProfile(impostor, profile) {
		t.Fatal("non-tutor role may not update a tutor profile")
	}

	if !CanReadTutorProfile(learner()) {
		t.Fatal("any authenticated actor may read tutor profiles")
	}
}

func TestSessionPolicy(t *testing.T) {
	tu, le := tutor(), learner()
	session := models.Session{TutorID: tu.ID, LearnerID: le.ID}

	if !CanReadSession(tu, session) || !CanReadSession(le, session) {
		t.Fatal("both participants may read the session")
	}
	if CanReadSession(learner(), session) {
		t.Fatal("a third party may not read the session")
	}

	if !CanBookSession(le, le.ID, tu.ID) {
		t.Fatal("a learner may book for themselves")
	}
	if CanBookSession(le, uuid.New(), tu.ID) {
		t.Fatal("a learner may not book on behalf of someone else")
	}
	if CanBookSession(le, le.ID, le.ID) {
		t.Fatal("tutor and learner must be distinct")
	}
	if CanBookSession(tu, tu.ID, le.ID) {
		t.Fatal("a tutor may not book sessions")
	}

	if !CanTransitionSession(tu, session) || !CanTransitionSession(le, session) {
		t.Fatal("both participants may attempt transitions")
	}
	if CanTransitionSession(tutor(), session) {
		t.Fatal("a third party may not transition the session")
	}
}

func TestReviewPolicy(t *testing.T) {
	tu, le := tutor(), learner()
	session := models.Session{TutorID: tu.ID, LearnerID: le.ID}

	if !CanSubmitReview(le, session) {
		t.Fatal("the session's learner may submit its review")
	}
	if CanSubmitReview(tu, session) {
		t.Fatal("the tutor may not review their own session")
	}
	if CanSubmitReview(learner(), session) {
		t.Fatal("a third party may not submit the review")
	}
	if !CanReadReview(tu) || !CanReadReview(le) {
		t.Fatal("reviews are readable by anyone authenticated")
	}
}
