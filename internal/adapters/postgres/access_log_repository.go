package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wblproducoes/mvc08/internal/domain"
	"github.com/wblproducoes/mvc08/internal/ports"
)

type accessLogRepository struct {
	db *gorm.DB
}

// Record inserts one audit row. The table is append-only: no update or
// delete path exists in this repository.
func (r *accessLogRepository) Record(ctx context.Context, entry domain.AccessLogEntry) (int64, error) {
	rec := accessLogModel{
		UserID:    entry.UserID,
		DhAccess:  entry.Timestamp,
		IPAddress: nullableString(entry.IPAddress),
		UserAgent: entry.UserAgent,
		EventType: int16(entry.EventType),
		Success:   entry.Success,
		Details:   entry.Details,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

const accessLogSelect = "user_access_logs.*, users.name AS user_name, users.username AS user_username"

func (r *accessLogRepository) List(ctx context.Context, filter ports.AccessLogFilter, limit, offset int) ([]domain.AccessLogEntry, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&accessLogModel{}).
		Joins("LEFT JOIN users ON users.id = user_access_logs.user_id")
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("users.name ILIKE ? OR users.username ILIKE ? OR user_access_logs.ip_address ILIKE ?", like, like, like)
	}
	if filter.EventType != 0 {
		query = query.Where("user_access_logs.event_type = ?", int16(filter.EventType))
	}
	if filter.Success != nil {
		query = query.Where("user_access_logs.success = ?", *filter.Success)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []accessLogModel
	if err := query.Select(accessLogSelect).
		Order("user_access_logs.dh_access DESC, user_access_logs.id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	result := make([]domain.AccessLogEntry, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainAccessLog(row))
	}
	return result, total, nil
}

func (r *accessLogRepository) GetByID(ctx context.Context, id int64) (domain.AccessLogEntry, error) {
	var rec accessLogModel
	err := r.db.WithContext(ctx).
		Model(&accessLogModel{}).
		Select(accessLogSelect).
		Joins("LEFT JOIN users ON users.id = user_access_logs.user_id").
		Where("user_access_logs.id = ?", id).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AccessLogEntry{}, domain.ErrNotFound
		}
		return domain.AccessLogEntry{}, err
	}
	return toDomainAccessLog(rec), nil
}
