package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	GratitudeKindGratitude  = "gratitude"
	GratitudeKindExcitement = "excitement"
)

// MoodSection holds a morning or evening write-up.
type MoodSection struct {
	Completed   bool
	MoodScore   *int
	MoodFactors pq.StringArray `gorm:"type:text[]"`
	Reflection  string
	Points      int
}

type ActionSection struct {
	Completed  bool
	Reflection string
	Points     int
}

// JournalEntry is one user's page for one calendar day.
type JournalEntry struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_journal_entries_user_date"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uq_journal_entries_user_date"`

	Morning         MoodSection   `gorm:"embedded;embeddedPrefix:morning_"`
	Evening         MoodSection   `gorm:"embedded;embeddedPrefix:evening_"`
	TomorrowPlan    string        `gorm:"column:evening_tomorrow_plan"`
	GratitudeAction ActionSection `gorm:"embedded;embeddedPrefix:gratitude_action_"`

	TotalPoints int

	Affirmations   []Affirmation   `gorm:"foreignKey:EntryID"`
	GratitudeItems []GratitudeItem `gorm:"foreignKey:EntryID"`
}

// HasActivity reports whether any section of the day was completed.
func (e *JournalEntry) HasActivity() bool {
	return e.Morning.Completed || e.Evening.Completed || e.GratitudeAction.Completed
}

func (e *JournalEntry) ItemsOfKind(kind string) []string {
	var out []string
	for _, it := range e.GratitudeItems {
		if it.Kind == kind {
			out = append(out, it.Text)
		}
	}
	return out
}

type Affirmation struct {
	ItemModel
	EntryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Text     string
	Position int
}

type GratitudeItem struct {
	ItemModel
	EntryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind     string
	Text     string
	Position int
}
