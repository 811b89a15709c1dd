package services

import (
	"context"
	"fmt"

	resp "gynergy/internal/models/response_models"
	"gynergy/internal/repositories"
	"gynergy/pkg/utils"
)

const (
	DefaultLeaderboardSize = 50
	MaxLeaderboardSize     = 100
)

type LeaderboardServiceInterface interface {
	Top(ctx context.Context, metric repositories.LeaderboardMetric, limit int) ([]resp.LeaderboardRow, error)
}

type LeaderboardService struct {
	repo repositories.LeaderboardRepository
}

func NewLeaderboardService(repo repositories.LeaderboardRepository) LeaderboardServiceInterface {
	return &LeaderboardService{repo: repo}
}

func (s *LeaderboardService) Top(ctx context.Context, metric repositories.LeaderboardMetric, limit int) ([]resp.LeaderboardRow, error) {
	switch {
	case limit <= 0:
		limit = DefaultLeaderboardSize
	case limit > MaxLeaderboardSize:
		limit = MaxLeaderboardSize
	}

	accounts, err := s.repo.TopUsers(ctx, metric, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: leaderboard: %v", utils.ErrDatabaseError, err)
	}

	rows := make([]resp.LeaderboardRow, 0, len(accounts))
	for i := range accounts {
		a := &accounts[i]
		rows = append(rows, resp.LeaderboardRow{
			Rank:        i + 1,
			UserID:      a.ID.String(),
			DisplayName: a.PublicName(),
			Streak:      a.StreakCount,
			Points:      a.TotalPoints,
		})
	}
	return rows, nil
}
