package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/cache"
	"github.com/tutorlink/tutorlink/models"
	"github.com/tutorlink/tutorlink/policy"
	"github.com/tutorlink/tutorlink/repository"
	"github.com/tutorlink/tutorlink/tracing"
	"github.com/tutorlink/tutorlink/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type TutorService struct {
	users     *repository.UserRepository
	profiles  *repository.TutorProfileRepository
	directory *cache.TutorDirectory
	log       *zap.Logger
}

func NewTutorService(users *repository.UserRepository, profiles *repository.TutorProfileRepository, directory *cache.TutorDirectory, log *zap.Logger) *TutorService {
	return &TutorService{users: users, profiles: profiles, directory: directory, log: log}
}

// List returns tutor profiles with embedded accounts, best rated first.
// The unfiltered listing is served from the directory cache when warm.
func (s *TutorService) List(ctx context.Context, minRating *float64) ([]models.TutorProfile, error) {
	ctx, span := tracing.Tracer.Start(ctx, "TutorService.List")
	defer span.End()

	if minRating == nil {
		if profiles, ok := s.directory.Get(ctx); ok {
			return profiles, nil
		}
	}

	profiles, err := s.profiles.List(ctx, minRating)
	if err != nil {
		return nil, err
	}
	if minRating == nil {
		s.directory.Set(ctx, profiles)
	}
	return profiles, nil
}

func (s *TutorService) Get(ctx context.Context, tutorID uuid.UUID) (models.TutorProfile, error) {
	return s.profiles.FindByUserID(ctx, tutorID)
}

type UpdateTutorProfileInput struct {
	Bio          *string
	Skills       *[]string
	HourlyRate   *float64
	Availability json.RawMessage
}

// UpdateProfile patches the caller-editable fields only. rating and
// total_reviews cannot be reached through this path under any input.
func (s *TutorService) UpdateProfile(ctx context.Context, actorID uuid.UUID, in UpdateTutorProfileInput) (models.TutorProfile, error) {
	ctx, span := tracing.Tracer.Start(ctx, "TutorService.UpdateProfile")
	defer span.End()

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return models.TutorProfile{}, err
	}
	profile, err := s.profiles.FindByUserID(ctx, actorID)
	if err != nil {
		return models.TutorProfile{}, err
	}
	if !policy.CanUpdateTutorProfile(actor, profile) {
		return models.TutorProfile{}, utils.ErrForbidden
	}

	if in.Bio != nil {
		profile.Bio = in.Bio
	}
	if in.Skills != nil {
		raw, err := json.Marshal(*in.Skills)
		if err != nil {
			return models.TutorProfile{}, err
		}
		profile.Skills = datatypes.JSON(raw)
	}
	if in.HourlyRate != nil {
		if *in.HourlyRate < 0 {
			return models.TutorProfile{}, fmt.Errorf("%w: hourly rate cannot be negative", utils.ErrConstraintViolation)
		}
		profile.HourlyRate = *in.HourlyRate
	}
	if in.Availability != nil {
		profile.Availability = datatypes.JSON(in.Availability)
	}

	if err := s.profiles.UpdateEditableFields(ctx, &profile); err != nil {
		return models.TutorProfile{}, err
	}

	s.directory.Invalidate(ctx)
	s.log.Info("tutor profile updated", zap.String("tutor_id", actorID.String()))
	return s.profiles.FindByUserID(ctx, actorID)
}
