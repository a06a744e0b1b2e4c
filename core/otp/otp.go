package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Purposes
const (
	PurposeSignup = "signup"
	PurposeReset  = "reset"
)

var (
	// errors
	ErrNotFound       = errors.New("no verification code was requested for this email")
	ErrExpired        = errors.New("verification code has expired")
	ErrMismatch       = errors.New("invalid verification code")
	ErrDeliveryFailed = errors.New("failed to send verification code")

	NowFunc = time.Now // mockable
)

// maxAttempts is how many wrong codes a record takes before it is dropped.
const maxAttempts = 5

// Record is the single pending code of an email address.
type Record struct {
	Email     string
	Code      string
	Purpose   string
	Attempts  int // wrong codes submitted so far
	CreatedAt time.Time
}

type (
	Repository interface {
		// UpsertCode replaces any previous record of the same email.
		UpsertCode(ctx context.Context, rec Record) error
		GetCode(ctx context.Context, email string) (Record, error)
		DeleteCode(ctx context.Context, email string) error
		// IncrementAttempts counts a wrong code against the record of email and returns the new count.
		IncrementAttempts(ctx context.Context, email string) (int, error)
	}

	Service struct {
		repo   Repository
		mail   core.EmailService
		ttl    time.Duration
		length int
	}

	// codeMailData is the otp email template data.
	codeMailData struct {
		Code    string
		Purpose string
		Minutes int
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	length := conf.OTP.Length
	if length <= 0 {
		length = 6
	}
	return &Service{
		repo:   repo,
		mail:   mailSvc,
		ttl:    conf.OTP.TTL,
		length: length,
	}
}

// Issue mails a fresh code to email and stores it, invalidating any previous one.
// Nothing is stored when the email could not be sent.
func (svc *Service) Issue(ctx context.Context, email, purpose string) (string, error) {
	code, err := generateCode(svc.length)
	if err != nil {
		return "", errors.Wrap(err, "generating code")
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Address: email}},
		Subject:      "OTP Verification",
		TemplateName: "otp",
		TemplateData: codeMailData{Code: code, Purpose: purpose, Minutes: int(svc.ttl.Minutes())},
	}
	if err = svc.mail.SendMessage(ctx, msg); err != nil {
		return "", errors.Wrap(ErrDeliveryFailed, err.Error())
	}

	rec := Record{Email: email, Code: code, Purpose: purpose, CreatedAt: NowFunc().UTC()}
	if err = svc.repo.UpsertCode(ctx, rec); err != nil {
		return "", errors.Wrap(err, "storing code")
	}
	return code, nil
}

// Consume checks code against the pending record of email and deletes the record on success.
// The record is dropped once maxAttempts wrong codes were submitted.
func (svc *Service) Consume(ctx context.Context, email, code string) error {
	rec, err := svc.repo.GetCode(ctx, email)
	if err != nil {
		return err
	}
	if NowFunc().Sub(rec.CreatedAt) > svc.ttl {
		return ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(code)) != 1 {
		attempts, err := svc.repo.IncrementAttempts(ctx, email)
		switch {
		case errors.Is(err, ErrNotFound):
			// consumed or replaced concurrently
		case err != nil:
			return errors.Wrap(err, "counting attempt")
		case attempts >= maxAttempts:
			if err = svc.repo.DeleteCode(ctx, email); err != nil {
				return errors.Wrap(err, "deleting code")
			}
		}
		return ErrMismatch
	}
	return errors.Wrap(svc.repo.DeleteCode(ctx, email), "deleting code")
}

// generateCode returns a random numeric code of n digits, never starting with 0.
func generateCode(n int) (string, error) {
	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n-1)), nil)
	span := new(big.Int).Sub(new(big.Int).Mul(low, big.NewInt(10)), low)
	r, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", r.Add(r, low)), nil
}
