package config_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"gynergy/internal/config"
	"gynergy/internal/infra"
	"gynergy/pkg/utils"
)

var Module = fx.Provide(
	config.Load,
	provideLogger,
	provideCalendar,
	provideJWTManager)

// provideLogger also installs the logger as zap's global so packages that
// log through zap.L() share its level and encoding.
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := infra.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	return log, nil
}

func provideCalendar(cfg *config.Config) utils.Calendar {
	return utils.NewCalendar(cfg.Location())
}

func provideJWTManager(cfg *config.Config, log *zap.Logger) *utils.JWTManager {
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using the development signing key")
	}
	return utils.NewJWTManager(cfg.SessionSecret(), cfg.JWTTTL)
}
