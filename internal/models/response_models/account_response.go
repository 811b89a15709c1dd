package response_models

type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
	User      ProfileResponse `json:"user"`
}

type ProfileResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
	Streak         int    `json:"streak"`
	Points         int    `json:"points"`
}

type MilestoneResponse struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type ProgressResponse struct {
	Points           int                 `json:"points"`
	Streak           int                 `json:"streak"`
	LongestStreak    int                 `json:"longest_streak"`
	LastEntryDate    string              `json:"last_entry_date,omitempty"`
	CurrentMilestone MilestoneResponse   `json:"current_milestone"`
	NextMilestone    *MilestoneResponse  `json:"next_milestone,omitempty"`
	PointsToNext     int                 `json:"points_to_next"`
	PercentToSummit  float64             `json:"percent_to_summit"`
	Milestones       []MilestoneResponse `json:"milestones"`
}

type LeaderboardRow struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Streak      int    `json:"streak"`
	Points      int    `json:"points"`
}
