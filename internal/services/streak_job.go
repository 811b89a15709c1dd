package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gynergy/internal/repositories"
	"gynergy/pkg/metrics"
	"gynergy/pkg/utils"
)

// StreakDecayJob zeroes streaks of users who missed yesterday, so
// leaderboards stop showing streaks that have already lapsed.
type StreakDecayJob struct {
	repo     repositories.JournalRepository
	calendar utils.Calendar
	log      *zap.Logger
	cron     *cron.Cron
}

func NewStreakDecayJob(repo repositories.JournalRepository, calendar utils.Calendar, log *zap.Logger) *StreakDecayJob {
	loc := calendar.Loc
	if loc == nil {
		loc = time.UTC
	}
	return &StreakDecayJob{
		repo:     repo,
		calendar: calendar,
		log:      log.Named("streak-decay"),
		cron:     cron.New(cron.WithLocation(loc)),
	}
}

func (j *StreakDecayJob) Run(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	n, err := j.repo.ResetLapsedStreaks(ctx, j.calendar.Today())
	if err != nil {
		j.log.Error("reset lapsed streaks", zap.Error(err))
		return 0, err
	}
	metrics.RecordStreakResets(n)
	j.log.Info("lapsed streaks reset", zap.Int64("users", n))
	return n, nil
}

// Start schedules Run on spec (standard five-field cron syntax).
func (j *StreakDecayJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, func() { _, _ = j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info("scheduled", zap.String("spec", spec))
	return nil
}

// Stop waits for a running job to finish or ctx to end.
func (j *StreakDecayJob) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
