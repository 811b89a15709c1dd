package gamification

import (
	"time"

	"gynergy/internal/models/db_models"
)

// Outcome is the result of completing a section.
type Outcome struct {
	Entry         *db_models.JournalEntry
	Awarded       int
	Streak        int
	LongestStreak int
	TotalPoints   int
}

// Settle updates the account's aggregates after a write to day's entry.
//
// wasActive is whether the entry had any completed section before the write;
// yesterdayActive whether the previous day's entry had one. The streak only
// moves on the first completion of a day: it extends when yesterday was
// active and restarts at 1 otherwise.
func Settle(acct *db_models.Account, entry *db_models.JournalEntry, day time.Time, wasActive, yesterdayActive bool, awarded int) Outcome {
	acct.TotalPoints += awarded

	if !wasActive && entry.HasActivity() {
		if yesterdayActive {
			acct.StreakCount++
		} else {
			acct.StreakCount = 1
		}
		if acct.StreakCount > acct.LongestStreak {
			acct.LongestStreak = acct.StreakCount
		}
		d := day
		acct.LastEntryDate = &d
	}

	return Outcome{
		Entry:         entry,
		Awarded:       awarded,
		Streak:        acct.StreakCount,
		LongestStreak: acct.LongestStreak,
		TotalPoints:   acct.TotalPoints,
	}
}

// Lapsed reports whether a streak last extended on lastActive is broken as of today.
func Lapsed(lastActive *time.Time, today time.Time) bool {
	if lastActive == nil {
		return true
	}
	return lastActive.Before(today.AddDate(0, 0, -1))
}
