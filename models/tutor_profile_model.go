package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TutorProfile hangs off a User with RoleTutor. Rating and TotalReviews
// are derived from the reviews table and are only ever written by the
// rating aggregator; no handler path may touch them.
type TutorProfile struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`

	Bio        *string        `gorm:"type:text" json:"bio"`
	Skills     datatypes.JSON `json:"skills"`
	HourlyRate float64        `gorm:"type:numeric(10,2);default:0;check:hourly_rate >= 0" json:"hourly_rate"`

	Rating       float64 `gorm:"default:0;check:rating >= 0 AND rating <= 5" json:"rating"`
	TotalReviews int64   `gorm:"default:0;check:total_reviews >= 0" json:"total_reviews"`

	// Availability is an opaque payload owned by the client; the core
	// stores and returns it without validation.
	Availability datatypes.JSON `json:"availability"`

	User User `gorm:"foreignKey:UserID" json:"user"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
