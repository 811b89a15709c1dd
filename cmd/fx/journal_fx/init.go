package journal_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"gynergy/internal/config"
	"gynergy/internal/repositories"
	"gynergy/internal/services"
	"gynergy/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(
		services.NewJournalService,
		services.NewLeaderboardService,
		services.NewProfileService,
		services.NewContentService,
		provideStreakDecayJob,
	),
	fx.Invoke(scheduleStreakDecay),
)

func provideStreakDecayJob(repo repositories.JournalRepository, calendar utils.Calendar, log *zap.Logger) *services.StreakDecayJob {
	return services.NewStreakDecayJob(repo, calendar, log)
}

func scheduleStreakDecay(lc fx.Lifecycle, job *services.StreakDecayJob, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return job.Start(cfg.StreakDecaySchedule)
		},
		OnStop: func(ctx context.Context) error {
			job.Stop(ctx)
			return nil
		},
	})
}
