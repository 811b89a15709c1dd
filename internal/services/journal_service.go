package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gynergy/internal/gamification"
	"gynergy/internal/models/db_models"
	"gynergy/internal/models/request_models"
	resp "gynergy/internal/models/response_models"
	"gynergy/internal/repositories"
	"gynergy/pkg/metrics"
	"gynergy/pkg/utils"
)

type JournalServiceInterface interface {
	Save(ctx context.Context, userID uuid.UUID, request request_models.SaveEntryRequest) (*resp.SaveEntryResponse, error)
	Today(ctx context.Context, userID uuid.UUID) (*resp.EntryResponse, error)
	History(ctx context.Context, userID uuid.UUID, query request_models.HistoryQuery) ([]resp.EntryResponse, error)
	Calendar(ctx context.Context, userID uuid.UUID, month string) ([]resp.CalendarDay, error)
}

type JournalService struct {
	journalRepo repositories.JournalRepository
	calendar    utils.Calendar
}

func NewJournalService(journalRepo repositories.JournalRepository, calendar utils.Calendar) JournalServiceInterface {
	return &JournalService{
		journalRepo: journalRepo,
		calendar:    calendar,
	}
}

// ToSectionWrite turns a save payload into a section write. A body without
// a section but with text is a morning reflection.
func ToSectionWrite(request request_models.SaveEntryRequest) (gamification.SectionWrite, error) {
	var w gamification.SectionWrite

	if request.Section == "" {
		if request.Text == nil {
			return w, fmt.Errorf("%w: Missing or invalid text", utils.ErrValidation)
		}
		request.Section = string(gamification.SectionMorning)
	}

	section, err := gamification.ParseSection(request.Section)
	if err != nil {
		return w, err
	}

	w.Section = section
	switch {
	case request.Reflection != nil:
		w.Reflection = *request.Reflection
	case request.Text != nil:
		w.Reflection = *request.Text
	}

	if section == gamification.SectionGratitudeAction {
		return w, w.Validate()
	}

	w.MoodScore = request.MoodScore
	w.MoodFactors = request.MoodFactors
	if section == gamification.SectionEvening {
		w.TomorrowPlan = request.TomorrowPlan
	}
	if section == gamification.SectionMorning &&
		(request.Affirmations != nil || request.Gratitude != nil || request.Excitement != nil) {
		w.ReplaceItems = true
		w.Affirmations = request.Affirmations
		w.Gratitude = request.Gratitude
		w.Excitement = request.Excitement
	}

	return w, w.Validate()
}

func (s *JournalService) Save(ctx context.Context, userID uuid.UUID, request request_models.SaveEntryRequest) (*resp.SaveEntryResponse, error) {
	w, err := ToSectionWrite(request)
	if err != nil {
		return nil, err
	}

	out, err := s.journalRepo.CompleteSection(ctx, userID, s.calendar.Today(), w)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: complete %s: %v", utils.ErrDatabaseError, w.Section, err)
	}

	if out.Awarded > 0 {
		metrics.RecordSectionCompleted(string(w.Section))
	}

	return &resp.SaveEntryResponse{
		Entry:   ToEntryResponse(out.Entry),
		Streak:  out.Streak,
		Points:  out.TotalPoints,
		Awarded: out.Awarded,
	}, nil
}

func (s *JournalService) Today(ctx context.Context, userID uuid.UUID) (*resp.EntryResponse, error) {
	today := s.calendar.Today()

	entry, err := s.journalRepo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if entry == nil {
		out := ToEntryResponse(&db_models.JournalEntry{UserID: userID, Date: today})
		out.ID = ""
		return &out, nil
	}

	out := ToEntryResponse(entry)
	return &out, nil
}

func (s *JournalService) History(ctx context.Context, userID uuid.UUID, query request_models.HistoryQuery) ([]resp.EntryResponse, error) {
	var filter repositories.EntryFilter

	if query.From != "" {
		from, err := utils.ParseDate(query.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := utils.ParseDate(query.To)
		if err != nil {
			return nil, err
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", utils.ErrValidation)
	}
	filter.Limit = query.Limit

	entries, err := s.journalRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	out := make([]resp.EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, ToEntryResponse(&entries[i]))
	}
	return out, nil
}

func (s *JournalService) Calendar(ctx context.Context, userID uuid.UUID, month string) ([]resp.CalendarDay, error) {
	if month == "" {
		month = s.calendar.Today().Format("2006-01")
	}
	first, last, err := utils.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	entries, err := s.journalRepo.ListByUser(ctx, userID, repositories.EntryFilter{From: &first, To: &last})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	byDate := make(map[string]*db_models.JournalEntry, len(entries))
	for i := range entries {
		byDate[utils.FormatDate(entries[i].Date)] = &entries[i]
	}

	days := make([]resp.CalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		cell := resp.CalendarDay{Date: utils.FormatDate(d)}
		if e, ok := byDate[cell.Date]; ok {
			cell.Morning = e.Morning.Completed
			cell.Evening = e.Evening.Completed
			cell.GratitudeAction = e.GratitudeAction.Completed
			cell.Points = e.TotalPoints
		}
		days = append(days, cell)
	}
	return days, nil
}
