package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	dbm "gynergy/internal/models/db_models"
)

type ContentRepository interface {
	QuoteFor(ctx context.Context, day time.Time) (*dbm.DailyQuote, error)
	ActionFor(ctx context.Context, day time.Time) (*dbm.DailyAction, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) QuoteFor(ctx context.Context, day time.Time) (*dbm.DailyQuote, error) {
	return pickForDay[dbm.DailyQuote](r.db.WithContext(ctx), day)
}

func (r *contentRepository) ActionFor(ctx context.Context, day time.Time) (*dbm.DailyAction, error) {
	return pickForDay[dbm.DailyAction](r.db.WithContext(ctx), day)
}

// RotationIndex picks a stable row for day out of n rows.
func RotationIndex(day time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	days := day.Unix() / 86400
	if days < 0 {
		days = -days
	}
	return int(days % int64(n))
}

// pickForDay returns the row curated for day, or a rotation over all rows
// when none is. nil when the table is empty.
func pickForDay[T any](db *gorm.DB, day time.Time) (*T, error) {
	var row T
	err := db.Where("active_date = ?", day).Order("created_at ASC, id ASC").Take(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var count int64
	if err := db.Model(new(T)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	err = db.Order("created_at ASC, id ASC").Offset(RotationIndex(day, int(count))).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
