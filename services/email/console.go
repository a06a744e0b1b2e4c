package emailsvc

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// consoleService prints emails instead of sending them. Used in development.
type consoleService struct {
	conf          *core.Config
	logger        core.Logger
	subjPrefix    string
	disableOutput bool
}

var _ core.EmailService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config, logger core.Logger) *consoleService {
	return &consoleService{
		conf:       conf,
		logger:     logger,
		subjPrefix: "[" + conf.AppName + "] ",
	}
}

func (svc *consoleService) SendMessage(_ context.Context, msg *core.EmailMessage) error {
	ok, err := ready(svc.conf, msg)
	if err != nil || !ok {
		return err
	}
	body, err := buildMIME(svc.conf.DefaultFromEmail, svc.subjPrefix+msg.Subject, msg)
	if err != nil {
		return err
	}
	if !svc.disableOutput {
		svc.logger.Info(string(body))
	}
	return nil
}

// ConsoleServiceMock records the messages instead of printing them. Safe for concurrent use.
type ConsoleServiceMock struct {
	consoleService

	mu   sync.Mutex
	sent []core.EmailMessage
	err  error
}

var _ core.EmailService = (*ConsoleServiceMock)(nil)

func NewConsoleServiceMock(conf *core.Config) *ConsoleServiceMock {
	return &ConsoleServiceMock{
		consoleService: consoleService{
			conf:          conf,
			subjPrefix:    "[" + conf.AppName + "] ",
			disableOutput: true,
		},
	}
}

func (svc *ConsoleServiceMock) SendMessage(ctx context.Context, msg *core.EmailMessage) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.err != nil {
		return errors.Wrap(svc.err, "sending email")
	}
	if err := svc.consoleService.SendMessage(ctx, msg); err != nil {
		return err
	}
	svc.sent = append(svc.sent, *msg)
	return nil
}

// SentMessages returns a copy of the messages sent so far.
func (svc *ConsoleServiceMock) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	return append([]core.EmailMessage(nil), svc.sent...)
}

// LastMessage returns the latest message sent to email.
func (svc *ConsoleServiceMock) LastMessage(email string) (core.EmailMessage, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for i := len(svc.sent) - 1; i >= 0; i-- {
		for _, to := range svc.sent[i].To {
			if to.Address == email {
				return svc.sent[i], true
			}
		}
	}
	return core.EmailMessage{}, false
}

// FailWith makes the next sends fail with err until it is called with nil.
func (svc *ConsoleServiceMock) FailWith(err error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.err = err
}

func (svc *ConsoleServiceMock) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.sent = nil
	svc.err = nil
}
