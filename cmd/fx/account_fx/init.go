package account_fx

import (
	"go.uber.org/fx"

	"gynergy/internal/config"
	"gynergy/internal/repositories"
	"gynergy/internal/services"
	mem "gynergy/pkg/memcache"
	"gynergy/pkg/utils"
)

var Module = fx.Provide(provideAccountService)

func provideAccountService(
	cfg *config.Config,
	accountRepo repositories.AccountRepository,
	mailService services.IMailService,
	tokens mem.TokenStore,
	jwt *utils.JWTManager,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, mailService, tokens, jwt, services.AuthSettings{
		BaseURL:      cfg.BaseURL,
		MagicLinkTTL: cfg.MagicLinkTTL,
	})
}
