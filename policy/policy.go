// Package policy decides, per entity and operation, whether the acting
// identity may touch the target record. Handlers and services call
// these predicates before every read or write; UI-level role gating is
// advisory only.
package policy

import (
	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
)

// Any authenticated actor may read any account.
func CanReadAccount(_ models.User) bool { return true }

func CanUpdateAccount(actor models.User, target models.User) bool {
	return actor.ID == target.ID
}

// Any authenticated actor may read any tutor profile.
func CanReadTutorProfile(_ models.User) bool { return true }

// Only the owning account may update its profile, and only while that
// account carries the tutor role. The derived fields (rating,
// total_reviews) are excluded from this path entirely; see the rating
// aggregator.
func CanUpdateTutorProfile(actor models.User, profile models.TutorProfile) bool {
	switch actor.Role {
	case models.RoleTutor:
		return actor.ID == profile.UserID
	case models.RoleLearner:
		return false
	}
	return false
}

// A session is visible only to its two participants.
func CanReadSession(actor models.User, s models.Session) bool {
	return s.Participant(actor.ID)
}

// Only a learner may book, only naming themselves, and never with
// themselves as tutor.
func CanBookSession(actor models.User, learnerID, tutorID uuid.UUID) bool {
	switch actor.Role {
	case models.RoleLearner:
		return actor.ID == learnerID && learnerID != tutorID
	case models.RoleTutor:
		return false
	}
	return false
}

// Status transitions are restricted to participants; per-event actor
// rules (accept/decline are tutor-only) live with the state machine.
func CanTransitionSession(actor models.User, s models.Session) bool {
	return s.Participant(actor.ID)
}

// Reviews are readable by anyone authenticated.
func CanReadReview(_ models.User) bool { return true }

// Only the session's learner may submit its review. Completion-status
// gating is enforced by the aggregator inside its transaction.
func CanSubmitReview(actor models.User, s models.Session) bool {
	return actor.ID == s.LearnerID
}
