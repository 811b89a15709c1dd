package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gynergy/internal/config"
	"gynergy/internal/infra"
	"gynergy/internal/repositories"
	"gynergy/internal/repositories/memory"
)

var Module = fx.Provide(provideRepositories)

type Repositories struct {
	fx.Out

	Accounts    repositories.AccountRepository
	Journal     repositories.JournalRepository
	Leaderboard repositories.LeaderboardRepository
	Content     repositories.ContentRepository
}

func provideRepositories(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Repositories, error) {
	if cfg.Datastore == config.StoreMemory {
		log.Warn("using the in-memory datastore; data is lost on restart")
		store := memory.NewSeededStore()
		return Repositories{
			Accounts:    store,
			Journal:     store,
			Leaderboard: store,
			Content:     store,
		}, nil
	}

	db, err := provideDB(lc, cfg)
	if err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Accounts:    repositories.NewAccountRepository(db),
		Journal:     repositories.NewJournalRepository(db),
		Leaderboard: repositories.NewLeaderboardRepository(db),
		Content:     repositories.NewContentRepository(db),
	}, nil
}

func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := infra.RunMigrations(db); err != nil {
		infra.ClosePostgresql(db)
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			infra.ClosePostgresql(db)
			return nil
		},
	})
	return db, nil
}
