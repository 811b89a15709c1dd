package services

import (
	"gynergy/internal/gamification"
	"gynergy/internal/models/db_models"
	resp "gynergy/internal/models/response_models"
	"gynergy/pkg/utils"
)

func toSectionResponse(s db_models.MoodSection) resp.SectionResponse {
	return resp.SectionResponse{
		Completed:   s.Completed,
		MoodScore:   s.MoodScore,
		MoodFactors: []string(s.MoodFactors),
		Reflection:  s.Reflection,
		Points:      s.Points,
	}
}

func ToEntryResponse(e *db_models.JournalEntry) resp.EntryResponse {
	evening := toSectionResponse(e.Evening)
	evening.TomorrowPlan = e.TomorrowPlan

	affirmations := make([]string, 0, len(e.Affirmations))
	for _, a := range e.Affirmations {
		affirmations = append(affirmations, a.Text)
	}

	return resp.EntryResponse{
		ID:      e.ID.String(),
		Date:    utils.FormatDate(e.Date),
		Morning: toSectionResponse(e.Morning),
		Evening: evening,
		GratitudeAction: resp.SectionResponse{
			Completed:  e.GratitudeAction.Completed,
			Reflection: e.GratitudeAction.Reflection,
			Points:     e.GratitudeAction.Points,
		},
		Affirmations: affirmations,
		Gratitude:    nonNil(e.ItemsOfKind(db_models.GratitudeKindGratitude)),
		Excitement:   nonNil(e.ItemsOfKind(db_models.GratitudeKindExcitement)),
		TotalPoints:  e.TotalPoints,
		CreatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(e.CreatedAt)),
		UpdatedAt:    utils.FormatRFC3339(utils.FromUnixSeconds(e.UpdatedAt)),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func ToProfileResponse(a *db_models.Account) resp.ProfileResponse {
	return resp.ProfileResponse{
		ID:             a.ID.String(),
		Email:          a.Email,
		Name:           a.DisplayName,
		ProfilePicture: a.AvatarURL,
		Streak:         a.StreakCount,
		Points:         a.TotalPoints,
	}
}

func ToSessionResponse(s *Session) resp.SessionResponse {
	return resp.SessionResponse{
		Token:     s.Token,
		ExpiresAt: utils.FormatRFC3339(s.ExpiresAt),
		User:      ToProfileResponse(s.Account),
	}
}

func toMilestoneResponse(m gamification.Milestone) resp.MilestoneResponse {
	return resp.MilestoneResponse{Name: m.Name, Points: m.Points}
}
