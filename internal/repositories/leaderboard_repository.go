package repositories

import (
	"context"

	"gorm.io/gorm"

	dbm "gynergy/internal/models/db_models"
)

type LeaderboardMetric string

const (
	MetricStreak LeaderboardMetric = "streak"
	MetricPoints LeaderboardMetric = "points"
)

// Ranking order per metric: the metric, then the other metric, then id.
var leaderboardOrder = map[LeaderboardMetric]string{
	MetricStreak: "streak_count DESC, total_points DESC, id ASC",
	MetricPoints: "total_points DESC, streak_count DESC, id ASC",
}

type LeaderboardRepository interface {
	TopUsers(ctx context.Context, metric LeaderboardMetric, limit int) ([]dbm.Account, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) TopUsers(ctx context.Context, metric LeaderboardMetric, limit int) ([]dbm.Account, error) {
	order, ok := leaderboardOrder[metric]
	if !ok {
		order = leaderboardOrder[MetricStreak]
	}

	var rows []dbm.Account
	err := r.db.WithContext(ctx).
		Select("id", "display_name", "streak_count", "total_points").
		Order(order).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
