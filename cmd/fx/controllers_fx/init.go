package controllers_fx

import (
	"go.uber.org/fx"

	"gynergy/internal/api/controllers"
	"gynergy/internal/config"
)

var Module = fx.Options(
	fx.Provide(provideCookieConfig),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewJournalController),
	fx.Provide(controllers.NewLeaderboardController),
	fx.Provide(controllers.NewProfileController),
	fx.Provide(controllers.NewContentController))

func provideCookieConfig(cfg *config.Config) controllers.CookieConfig {
	return controllers.CookieConfig{Secure: !cfg.IsDevelopment()}
}
