package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tutorlink/tutorlink/models"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return translate(r.db.WithContext(ctx).Create(session).Error)
}

func (r *SessionRepository) FindByID(ctx context.Context, id uuid.UUID) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Tutor").
		Preload("Learner").
		First(&session, "id = ?", id).Error
	return session, translate(err)
}

// LockByID loads a session inside tx with a row lock so concurrent
// transition attempts serialize on the row.
func (r *SessionRepository) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (models.Session, error) {
	var session models.Session
	err := lockForUpdate(tx.WithContext(ctx)).First(&session, "id = ?", id).Error
	return session, translate(err)
}

func (r *SessionRepository) Save(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	return translate(tx.WithContext(ctx).Save(session).Error)
}

// ListForParticipant returns every session the actor takes part in,
// newest scheduled first, with both accounts embedded.
func (r *SessionRepository) ListForParticipant(ctx context.Context, actorID uuid.UUID, status *models.SessionStatus) ([]models.Session, error) {
	query := r.db.WithContext(ctx).
		Preload("Tutor").
		Preload("Learner").
		Where("tutor_id = ? OR learner_id = ?", actorID, actorID).
		Order("scheduled_at desc")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var sessions []models.Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, translate(err)
	}
	return sessions, nil
}
