package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"gynergy/internal/config"
	"gynergy/internal/infra"
	mem "gynergy/pkg/memcache"
	"gynergy/pkg/ratelimit"
)

var Module = fx.Provide(provideEphemeralStores)

// EphemeralStores holds short-lived state: sign-in secrets and rate-limit
// windows. Both live in Redis when REDIS_URL is set.
type EphemeralStores struct {
	fx.Out

	Tokens  mem.TokenStore
	Limiter ratelimit.Limiter
}

func provideEphemeralStores(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (EphemeralStores, error) {
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			return EphemeralStores{}, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return rdb.Close() },
		})
		log.Info("redis connected; tokens and rate limits are shared")
		return EphemeralStores{
			Tokens:  mem.NewRedisTokens(rdb),
			Limiter: ratelimit.NewRedisLimiter(rdb),
		}, nil
	}

	limiter := ratelimit.NewMemoryLimiter()
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			limiter.StartCleanup(ctx, 10*time.Minute, time.Hour)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	log.Warn("REDIS_URL not set; rate limits and sign-in tokens are per instance")
	return EphemeralStores{
		Tokens:  mem.NewLoginTokens(),
		Limiter: limiter,
	}, nil
}
