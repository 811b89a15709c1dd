package services

import (
	"context"
	"fmt"

	resp "gynergy/internal/models/response_models"
	"gynergy/internal/repositories"
	"gynergy/pkg/utils"
)

type ContentServiceInterface interface {
	QuoteOfTheDay(ctx context.Context) (*resp.QuoteResponse, error)
	ActionOfTheDay(ctx context.Context) (*resp.ActionResponse, error)
}

type ContentService struct {
	repo     repositories.ContentRepository
	calendar utils.Calendar
}

func NewContentService(repo repositories.ContentRepository, calendar utils.Calendar) ContentServiceInterface {
	return &ContentService{repo: repo, calendar: calendar}
}

func (s *ContentService) QuoteOfTheDay(ctx context.Context) (*resp.QuoteResponse, error) {
	today := s.calendar.Today()
	q, err := s.repo.QuoteFor(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%w: daily quote: %v", utils.ErrDatabaseError, err)
	}
	if q == nil {
		return nil, utils.ErrNotFound
	}
	return &resp.QuoteResponse{Date: utils.FormatDate(today), Quote: q.Quote, Author: q.Author}, nil
}

func (s *ContentService) ActionOfTheDay(ctx context.Context) (*resp.ActionResponse, error) {
	today := s.calendar.Today()
	a, err := s.repo.ActionFor(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%w: daily action: %v", utils.ErrDatabaseError, err)
	}
	if a == nil {
		return nil, utils.ErrNotFound
	}
	return &resp.ActionResponse{Date: utils.FormatDate(today), Action: a.ActionText, Tip: a.TipText}, nil
}
