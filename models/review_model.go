package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is immutable once created. TutorID and LearnerID are
// denormalized from the session at creation time. The composite unique
// index is the authority for the one-review-per-(session, learner)
// rule; it must hold even under concurrent submissions.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_session_learner" json:"session_id"`
	LearnerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_session_learner" json:"learner_id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	Session Session `gorm:"foreignKey:SessionID" json:"-"`
	Learner User    `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`
	Tutor   User    `gorm:"foreignKey:TutorID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (r *Review) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
