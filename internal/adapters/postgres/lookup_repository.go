package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wblproducoes/mvc08/internal/domain"
)

// lookupRepository serves one of the reference tables (status, levels,
// genders). The same implementation is instantiated per table.
type lookupRepository struct {
	db    *gorm.DB
	table string
}

func (r *lookupRepository) List(ctx context.Context) ([]domain.Lookup, error) {
	var rows []lookupModel
	if err := r.db.WithContext(ctx).Table(r.table).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Lookup, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainLookup(row))
	}
	return result, nil
}

func (r *lookupRepository) GetByID(ctx context.Context, id int64) (domain.Lookup, error) {
	var rec lookupModel
	if err := r.db.WithContext(ctx).Table(r.table).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Lookup{}, domain.ErrNotFound
		}
		return domain.Lookup{}, err
	}
	return toDomainLookup(rec), nil
}
