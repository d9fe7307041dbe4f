package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/ports"
)

type userRepository struct {
	db *gorm.DB
}

// live scopes queries to rows that are not soft-deleted.
func (r *userRepository) live(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Where("deleted_at IS NULL")
}

func (r *userRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	rec := userModel{
		Name:         params.Name,
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		StatusID:     params.StatusID,
		LevelID:      params.LevelID,
		GenderID:     params.GenderID,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: username or email already in use", domain.ErrConflict)
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var rec userModel
	if err := r.live(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var rec userModel
	if err := r.live(ctx).Where("username = ?", username).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userModel
	if err := r.live(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) List(ctx context.Context, filter ports.UserFilter, limit, offset int) ([]domain.User, int64, error) {
	query := r.live(ctx).Model(&userModel{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR username ILIKE ? OR email ILIKE ?", like, like, like)
	}
	if filter.StatusID != 0 {
		query = query.Where("status_id = ?", filter.StatusID)
	}
	if filter.LevelID != 0 {
		query = query.Where("level_id = ?", filter.LevelID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []userModel
	if err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	result := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainUser(row))
	}
	return result, total, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, params ports.UpdateUserParams) error {
	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Email != nil {
		updates["email"] = *params.Email
	}
	if params.StatusID != nil {
		updates["status_id"] = *params.StatusID
	}
	if params.LevelID != nil {
		updates["level_id"] = *params.LevelID
	}
	if params.GenderID != nil {
		updates["gender_id"] = *params.GenderID
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.live(ctx).Model(&userModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastAccess(ctx context.Context, id int64, at time.Time) error {
	res := r.live(ctx).Model(&userModel{}).Where("id = ?", id).Update("last_access", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	res := r.live(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": passwordHash,
		"updated_at":    updatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	res := r.live(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"password_reset_token_hash": tokenHash,
		"password_reset_expires":    expiresAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	// Locate, replace the password and clear the token in one update so the
	// token cannot be redeemed twice under concurrency.
	var userID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec userModel
		if err := tx.Where("deleted_at IS NULL").
			Where("password_reset_token_hash = ?", tokenHash).
			Where("password_reset_expires > ?", now).
			Take(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		res := tx.Model(&userModel{}).
			Where("id = ?", rec.ID).
			Where("password_reset_token_hash = ?", tokenHash).
			Updates(map[string]any{
				"password_hash":             passwordHash,
				"password_reset_token_hash": nil,
				"password_reset_expires":    nil,
				"updated_at":                now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		userID = rec.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id int64, deletedAt time.Time) error {
	res := r.live(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"deleted_at": deletedAt,
		"updated_at": deletedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Restore(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Where("deleted_at IS NOT NULL").
		Update("deleted_at", nil)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("%w: username or email reused since deletion", domain.ErrConflict)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) HardDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("deleted_at IS NOT NULL").
		Delete(&userModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
