package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"gynergy/internal/config"
	"gynergy/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) (services.IMailService, error) {
	if cfg.Mail.Driver == config.MailLog {
		log.Warn("MAIL_DRIVER=log; sign-in mail is written to the log instead of sent")
		return services.NewLogMailService(log), nil
	}

	return services.NewSMTPMailService(services.SMTPConfig{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		Username:   cfg.Mail.Username,
		Password:   cfg.Mail.Password,
		From:       cfg.Mail.From,
		FromName:   cfg.Mail.FromName,
		UseSSL:     cfg.Mail.UseSSL, // implicit TLS, usually port 465
		RequireTLS: cfg.Mail.RequireTLS,
		AppName:    "Gynergy",
	})
}
