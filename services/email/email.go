package emailsvc

import (
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// NewService returns the email service of the configured provider: console (default), sendgrid or smtp.
func NewService(conf *core.Config, logger core.Logger) core.EmailService {
	switch conf.Email.Provider {
	case "sendgrid":
		return NewSendgridService(conf, logger)
	case "smtp":
		return NewSMTPService(conf, logger)
	default:
		return NewConsoleService(conf, logger)
	}
}
