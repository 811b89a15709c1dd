package request_models

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name           *string `json:"name" binding:"omitempty,max=50"`
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profile_picture"`
}

type LeaderboardQuery struct {
	Limit int `form:"limit"`
}
