package email

import (
	"go.uber.org/fx"

	"github.com/inkvoice/inkvoice/internal/config"
)

// NewFromConfig builds the SMTP provider from application configuration.
func NewFromConfig(cfg config.Config) Provider {
	return NewSMTP(Config{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.SMTPFrom,
	})
}

var Module = fx.Module("email",
	fx.Provide(NewFromConfig),
)
