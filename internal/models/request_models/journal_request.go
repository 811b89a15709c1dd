package request_models

// SaveEntryRequest writes one section of today's entry. A body carrying only
// Text is treated as a morning reflection.
type SaveEntryRequest struct {
	Section      string   `json:"section"`
	Text         *string  `json:"text,omitempty"`
	MoodScore    *int     `json:"mood_score,omitempty"`
	MoodFactors  []string `json:"mood_factors,omitempty"`
	Reflection   *string  `json:"reflection,omitempty"`
	TomorrowPlan string   `json:"tomorrow_plan,omitempty"`
	Affirmations []string `json:"affirmations,omitempty"`
	Gratitude    []string `json:"gratitude,omitempty"`
	Excitement   []string `json:"excitement,omitempty"`
}

type HistoryQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=366"`
}

type CalendarQuery struct {
	Month string `form:"month" binding:"omitempty,datetime=2006-01"`
}
