package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wblproducoes/mvc08/internal/domain"
)

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, session domain.Session) (domain.Session, error) {
	rec := sessionModel{
		SessionID:      session.SessionID,
		UserID:         session.UserID,
		Username:       session.Username,
		Name:           session.Name,
		LevelID:        session.LevelID,
		CSRFToken:      session.CSRFToken,
		IPAddress:      nullableString(session.IPAddress),
		UserAgent:      session.UserAgent,
		CreatedAt:      session.CreatedAt,
		LastActivityAt: session.LastActivityAt,
		ExpiresAt:      session.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Session{}, err
	}
	return toDomainSession(rec), nil
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error) {
	var rec sessionModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}
	return toDomainSession(rec), nil
}

func (r *sessionRepository) TouchActivity(ctx context.Context, sessionID uuid.UUID, touchedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", sessionID).
		Update("last_activity_at", touchedAt).Error
}

func (r *sessionRepository) Revoke(ctx context.Context, sessionID uuid.UUID, revokedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("session_id = ?", sessionID).
		Where("revoked_at IS NULL").
		Update("revoked_at", revokedAt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&sessionModel{}).Where("session_id = ?", sessionID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *sessionRepository) RevokeAllByUser(ctx context.Context, userID int64, revokedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&sessionModel{}).
		Where("user_id = ?", userID).
		Where("revoked_at IS NULL").
		Update("revoked_at", revokedAt).Error
}
