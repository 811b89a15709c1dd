package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"gynergy/cmd/fx/account_fx"
	"gynergy/cmd/fx/config_fx"
	"gynergy/cmd/fx/controllers_fx"
	"gynergy/cmd/fx/db_fx"
	"gynergy/cmd/fx/journal_fx"
	"gynergy/cmd/fx/mail_fx"
	"gynergy/cmd/fx/memcache_fx"
	"gynergy/cmd/fx/ocr_fx"
	"gynergy/internal/api"
	"gynergy/internal/api/controllers"
	"gynergy/internal/config"
	"gynergy/pkg/middleware"
	"gynergy/pkg/ratelimit"
	"gynergy/pkg/utils"
)

// @title Gynergy Journal API
// @version 1.0
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		journal_fx.Module,
		ocr_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config  *config.Config
	Log     *zap.Logger
	JWT     *utils.JWTManager
	Limiter ratelimit.Limiter

	Account     *controllers.AccountController
	Journal     *controllers.JournalController
	Leaderboard *controllers.LeaderboardController
	Profile     *controllers.ProfileController
	Content     *controllers.ContentController
}

func ProvideRouter(lc fx.Lifecycle, p routerParams) *gin.Engine {
	if !p.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	throttle := middleware.NewIPThrottle(p.Config.PublicRPS, p.Config.PublicBurst)
	sweep := time.NewTicker(5 * time.Minute)
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				for {
					select {
					case <-done:
						return
					case <-sweep.C:
						throttle.Cleanup(10 * time.Minute)
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			sweep.Stop()
			close(done)
			return nil
		},
	})

	r := api.NewEngine(p.Log, p.Config.BaseURL)
	api.RegisterRoutes(r,
		api.Controllers{
			Account:     p.Account,
			Journal:     p.Journal,
			Leaderboard: p.Leaderboard,
			Profile:     p.Profile,
			Content:     p.Content,
		},
		api.Guards{
			Auth:         middleware.JWTAuthMiddleware(p.JWT),
			Public:       throttle.Handler(),
			UploadLimit:  middleware.RateLimit(p.Limiter, "upload", ratelimit.UploadRule),
			ProfileLimit: middleware.RateLimit(p.Limiter, "profile", ratelimit.ProfileUpdateRule),
		})

	return r
}
