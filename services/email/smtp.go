package emailsvc

import (
	"context"

	"github.com/pkg/errors"
	gomail "github.com/wneessen/go-mail"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// dialAndSend is swapped in tests.
var dialAndSend = func(ctx context.Context, c *gomail.Client, msgs ...*gomail.Msg) error {
	return c.DialAndSendWithContext(ctx, msgs...)
}

type smtpService struct {
	conf       *core.Config
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) *smtpService {
	return &smtpService{
		conf:       conf,
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

// newClient returns a fresh client per delivery; go-mail clients hold a single connection.
func (svc *smtpService) newClient() (*gomail.Client, error) {
	ec := svc.conf.Email
	opts := []gomail.Option{
		gomail.WithPort(ec.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if ec.SMTPUser != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(ec.SMTPUser),
			gomail.WithPassword(ec.SMTPPassword),
		)
	}
	c, err := gomail.NewClient(ec.SMTPHost, opts...)
	return c, errors.Wrap(err, "creating smtp client")
}

func (svc *smtpService) newMsg(msg *core.EmailMessage) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(svc.conf.DefaultFromEmail.String()); err != nil {
		return nil, errors.Wrap(err, "setting sender")
	}
	for _, a := range msg.To {
		if err := m.AddTo(a.String()); err != nil {
			return nil, errors.Wrap(err, "adding recipient")
		}
	}
	m.Subject(svc.subjPrefix + msg.Subject)

	if msg.TextContent == "" {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTMLContent)
		return m, nil
	}
	m.SetBodyString(gomail.TypeTextPlain, msg.TextContent)
	if msg.HTMLContent != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTMLContent)
	}
	return m, nil
}

func (svc *smtpService) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	ok, err := ready(svc.conf, msg)
	if err != nil || !ok {
		return err
	}
	m, err := svc.newMsg(msg)
	if err != nil {
		return err
	}
	c, err := svc.newClient()
	if err != nil {
		return err
	}
	if err = dialAndSend(ctx, c, m); err != nil {
		svc.logger.Error("sending email: "+err.Error(), err)
		return errors.Wrap(err, "sending email")
	}
	return nil
}
