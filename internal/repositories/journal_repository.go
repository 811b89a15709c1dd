package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gynergy/internal/gamification"
	dbm "gynergy/internal/models/db_models"
)

// EntryFilter narrows a history listing. Zero values mean unbounded.
type EntryFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

type JournalRepository interface {
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*dbm.JournalEntry, error)
	// ListByUser returns entries newest date first.
	ListByUser(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]dbm.JournalEntry, error)
	// CompleteSection upserts the (user, date) entry, merges the write and
	// settles points and streak in one atomic step.
	CompleteSection(ctx context.Context, userID uuid.UUID, date time.Time, w gamification.SectionWrite) (*gamification.Outcome, error)
	// ResetLapsedStreaks zeroes streaks whose last active day is before
	// the day preceding today. It returns the number of users reset.
	ResetLapsedStreaks(ctx context.Context, today time.Time) (int64, error)
}

// Columns overwritten when an upsert hits an existing (user_id, date) row.
var entryUpsertColumns = []string{
	"morning_completed", "morning_mood_score", "morning_mood_factors", "morning_reflection", "morning_points",
	"evening_completed", "evening_mood_score", "evening_mood_factors", "evening_reflection", "evening_points",
	"evening_tomorrow_plan",
	"gratitude_action_completed", "gratitude_action_reflection", "gratitude_action_points",
	"total_points", "updated_at",
}

const activeEntryCondition = "(morning_completed OR evening_completed OR gratitude_action_completed)"

type journalRepository struct {
	db *gorm.DB
}

func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Affirmations", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("GratitudeItems", func(db *gorm.DB) *gorm.DB { return db.Order("kind ASC, position ASC") })
}

func (r *journalRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*dbm.JournalEntry, error) {
	var entry dbm.JournalEntry
	err := withItems(r.db.WithContext(ctx)).
		Where("user_id = ? AND date = ?", userID, date).
		First(&entry).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *journalRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter EntryFilter) ([]dbm.JournalEntry, error) {
	q := withItems(r.db.WithContext(ctx)).Where("user_id = ?", userID)
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var entries []dbm.JournalEntry
	if err := q.Order("date DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *journalRepository) CompleteSection(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
	w gamification.SectionWrite,
) (*gamification.Outcome, error) {

	var out gamification.Outcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes every aggregate change for this user.
		var acct dbm.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, "id = ?", userID).Error; err != nil {
			return err
		}

		var entry dbm.JournalEntry
		err := withItems(tx).Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = dbm.JournalEntry{UserID: userID, Date: date}
			entry.ID = uuid.New()
		case err != nil:
			return err
		}

		wasActive := entry.HasActivity()
		awarded := gamification.ApplyWrite(&entry, w)

		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(entryUpsertColumns),
		}).Create(&entry).Error; err != nil {
			return err
		}

		if w.ReplaceItems {
			if err := replaceItems(tx, &entry); err != nil {
				return err
			}
		}

		yesterdayActive := false
		if !wasActive && entry.HasActivity() {
			var n int64
			if err := tx.Model(&dbm.JournalEntry{}).
				Where("user_id = ? AND date = ?", userID, date.AddDate(0, 0, -1)).
				Where(activeEntryCondition).
				Count(&n).Error; err != nil {
				return err
			}
			yesterdayActive = n > 0
		}

		out = gamification.Settle(&acct, &entry, date, wasActive, yesterdayActive, awarded)

		return tx.Model(&acct).Updates(map[string]interface{}{
			"total_points":    acct.TotalPoints,
			"streak_count":    acct.StreakCount,
			"longest_streak":  acct.LongestStreak,
			"last_entry_date": acct.LastEntryDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func replaceItems(tx *gorm.DB, entry *dbm.JournalEntry) error {
	if err := tx.Where("entry_id = ?", entry.ID).Delete(&dbm.Affirmation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("entry_id = ?", entry.ID).Delete(&dbm.GratitudeItem{}).Error; err != nil {
		return err
	}
	if len(entry.Affirmations) > 0 {
		if err := tx.Create(&entry.Affirmations).Error; err != nil {
			return err
		}
	}
	if len(entry.GratitudeItems) > 0 {
		if err := tx.Create(&entry.GratitudeItems).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *journalRepository) ResetLapsedStreaks(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("streak_count > 0").
		Where("last_entry_date IS NULL OR last_entry_date < ?", today.AddDate(0, 0, -1)).
		Update("streak_count", 0)
	return res.RowsAffected, res.Error
}
