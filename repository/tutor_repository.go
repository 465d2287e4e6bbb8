package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
	"gorm.io/gorm"
)

type TutorProfileRepository struct {
	db *gorm.DB
}

func NewTutorProfileRepository(db *gorm.DB) *TutorProfileRepository {
	return &TutorProfileRepository{db: db}
}

func (r *TutorProfileRepository) Create(ctx context.Context, profile *models.TutorProfile) error {
	return translate(r.db.WithContext(ctx).Create(profile).Error)
}

func (r *TutorProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (models.TutorProfile, error) {
	var profile models.TutorProfile
	err := r.db.WithContext(ctx).Preload("User").First(&profile, "user_id = ?", userID).Error
	return profile, translate(err)
}

// List returns profiles with their accounts embedded, best rated
// first. minRating narrows the listing when set.
func (r *TutorProfileRepository) List(ctx context.Context, minRating *float64) ([]models.TutorProfile, error) {
	query := r.db.WithContext(ctx).Preload("User").Order("rating desc")
	if minRating != nil {
		query = query.Where("rating >= ?", *minRating)
	}

	var profiles []models.TutorProfile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, translate(err)
	}
	return profiles, nil
}

// UpdateEditableFields writes only the caller-editable columns. The
// derived rating/total_reviews columns are deliberately not in the
// column list.
func (r *TutorProfileRepository) UpdateEditableFields(ctx context.Context, profile *models.TutorProfile) error {
	err := r.db.WithContext(ctx).
		Model(profile).
		Select("bio", "skills", "hourly_rate", "availability").
		Updates(profile).Error
	return translate(err)
}
