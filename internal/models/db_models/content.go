package db_models

import "time"

type DailyQuote struct {
	ItemModel
	Quote      string
	Author     string
	ActiveDate *time.Time `gorm:"type:date"`
}

type DailyAction struct {
	ItemModel
	ActionText string
	TipText    string
	ActiveDate *time.Time `gorm:"type:date"`
}
