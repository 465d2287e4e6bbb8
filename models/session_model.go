package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionType string

const (
	SessionOneOnOne SessionType = "one_on_one"
	SessionGroup    SessionType = "group"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionOneOnOne, SessionGroup:
		return true
	}
	return false
}

// Session is one booked engagement between a tutor and a learner. It is
// never deleted; cancellation is a status.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	LearnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"learner_id"`

	Subject         string        `gorm:"size:255;not null" json:"subject"`
	SessionType     SessionType   `gorm:"size:20;not null" json:"session_type"`
	ScheduledAt     time.Time     `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int           `gorm:"not null;check:duration_minutes > 0" json:"duration_minutes"`
	Status          SessionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	MeetingLink *string `gorm:"size:255" json:"meeting_link"`
	Notes       *string `gorm:"type:text" json:"notes"`

	Tutor   User `gorm:"foreignKey:TutorID" json:"tutor,omitempty"`
	Learner User `gorm:"foreignKey:LearnerID" json:"learner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(_ *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Participant reports whether id is one of the session's two parties.
func (s *Session) Participant(id uuid.UUID) bool {
	return id == s.TutorID || id == s.LearnerID
}
