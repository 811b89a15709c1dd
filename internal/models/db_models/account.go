package db_models

import "time"

// Account is a journal user. The progress aggregates (points, streaks) live
// on this row and are only changed while it is locked.
type Account struct {
	BaseModel
	Email         string `gorm:"uniqueIndex;not null"`
	PasswordHash  string
	DisplayName   string
	AvatarURL     string
	TotalPoints   int
	StreakCount   int
	LongestStreak int
	LastEntryDate *time.Time `gorm:"type:date"`
}

func (Account) TableName() string {
	return "users"
}

// PublicName is the name shown to other users.
func (a *Account) PublicName() string {
	if a.DisplayName == "" {
		return "Anon"
	}
	return a.DisplayName
}
