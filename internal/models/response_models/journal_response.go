package response_models

type SectionResponse struct {
	Completed    bool     `json:"completed"`
	MoodScore    *int     `json:"mood_score,omitempty"`
	MoodFactors  []string `json:"mood_factors,omitempty"`
	Reflection   string   `json:"reflection,omitempty"`
	TomorrowPlan string   `json:"tomorrow_plan,omitempty"`
	Points       int      `json:"points"`
}

type EntryResponse struct {
	ID              string          `json:"id,omitempty"`
	Date            string          `json:"date"`
	Morning         SectionResponse `json:"morning"`
	Evening         SectionResponse `json:"evening"`
	GratitudeAction SectionResponse `json:"gratitude_action"`
	Affirmations    []string        `json:"affirmations"`
	Gratitude       []string        `json:"gratitude"`
	Excitement      []string        `json:"excitement"`
	TotalPoints     int             `json:"total_points"`
	CreatedAt       string          `json:"created_at,omitempty"`
	UpdatedAt       string          `json:"updated_at,omitempty"`
}

type SaveEntryResponse struct {
	Entry   EntryResponse `json:"entry"`
	Streak  int           `json:"streak"`
	Points  int           `json:"points"`
	Awarded int           `json:"awarded"`
}

type CalendarDay struct {
	Date            string `json:"date"`
	Morning         bool   `json:"morning"`
	Evening         bool   `json:"evening"`
	GratitudeAction bool   `json:"gratitude_action"`
	Points          int    `json:"points"`
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}
