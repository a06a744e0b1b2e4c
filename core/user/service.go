package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// CreateUser fails with ErrEmailExists when the email is taken.
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		EmailExists(ctx context.Context, email string) (bool, error)
		QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		// UpdateUser replaces the stored user of the same email.
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	// CodeIssuer sends and checks email verification codes.
	CodeIssuer interface {
		Issue(ctx context.Context, email, purpose string) (string, error)
		Consume(ctx context.Context, email, code string) error
	}

	// SessionIssuer creates, checks and revokes session tokens.
	SessionIssuer interface {
		Issue(ctx context.Context, email, username, role string) (string, error)
		Validate(ctx context.Context, token string) (session.Claims, error)
		Revoke(ctx context.Context, token string) (int, error)
	}

	Service struct {
		repo     Repository
		codes    CodeIssuer
		sessions SessionIssuer
	}

	// Authenticated is an account and the session token just issued for it.
	Authenticated struct {
		User  User
		Token string
	}
)

func NewService(repo Repository, codes CodeIssuer, sessions SessionIssuer) *Service {
	return &Service{repo: repo, codes: codes, sessions: sessions}
}

func (svc *Service) authenticated(ctx context.Context, usr User) (Authenticated, error) {
	token, err := svc.sessions.Issue(ctx, usr.Email, usr.Username, usr.Role)
	if err != nil {
		return Authenticated{}, errors.Wrap(err, "issuing session")
	}
	return Authenticated{User: usr, Token: token}, nil
}

// RequestSignupCode mails a signup code to an email that is not registered yet.
func (svc *Service) RequestSignupCode(ctx context.Context, email string) error {
	exists, err := svc.repo.EmailExists(ctx, email)
	if err != nil {
		return errors.Wrap(err, "checking email")
	}
	if exists {
		return ErrEmailExists
	}
	_, err = svc.codes.Issue(ctx, email, otp.PurposeSignup)
	return err
}

// Signup creates a student account once the emailed code is confirmed.
func (svc *Service) Signup(ctx context.Context, nu NewUser) (Authenticated, error) {
	exists, err := svc.repo.EmailExists(ctx, nu.Email)
	if err != nil {
		return Authenticated{}, errors.Wrap(err, "checking email")
	}
	if exists {
		return Authenticated{}, ErrEmailExists
	}
	if err = svc.codes.Consume(ctx, nu.Email, nu.OTP); err != nil {
		return Authenticated{}, err
	}

	now := NowFunc().UTC()
	usr := User{
		Email:             nu.Email,
		Username:          nu.Username,
		Role:              RoleStudent,
		Institution:       nu.Institution,
		StudyHoursPerWeek: DefaultStudyHoursPerWeek,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err = usr.SetPassword(nu.Password); err != nil {
		return Authenticated{}, errors.Wrap(err, "hashing password")
	}
	// a concurrent signup of the same email is caught by the repository
	if usr, err = svc.repo.CreateUser(ctx, usr); err != nil {
		return Authenticated{}, err
	}
	return svc.authenticated(ctx, usr)
}

// RequestPasswordResetCode mails a reset code to a registered email.
func (svc *Service) RequestPasswordResetCode(ctx context.Context, email string) error {
	exists, err := svc.repo.EmailExists(ctx, email)
	if err != nil {
		return errors.Wrap(err, "checking email")
	}
	if !exists {
		return ErrNotFound
	}
	_, err = svc.codes.Issue(ctx, email, otp.PurposeReset)
	return err
}

// ResetPassword sets a new password on an existing account once the emailed code is confirmed.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetPassword) (Authenticated, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, rp.Email)
	if err != nil {
		return Authenticated{}, err
	}
	if err = svc.codes.Consume(ctx, rp.Email, rp.OTP); err != nil {
		return Authenticated{}, err
	}
	return svc.setPassword(ctx, usr, rp.Password)
}

func (svc *Service) setPassword(ctx context.Context, usr User, pwd string) (Authenticated, error) {
	if err := usr.SetPassword(pwd); err != nil {
		return Authenticated{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = NowFunc().UTC()
	usr, err := svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return Authenticated{}, errors.Wrap(err, "updating user")
	}
	return svc.authenticated(ctx, usr)
}

// Login fails with ErrInvalidCredentials whether the email is unknown or the password is wrong.
func (svc *Service) Login(ctx context.Context, email, pwd string) (Authenticated, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Authenticated{}, ErrInvalidCredentials
		}
		return Authenticated{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return Authenticated{}, ErrInvalidCredentials
	}
	return svc.authenticated(ctx, usr)
}

func (svc *Service) ChangePassword(ctx context.Context, cp ChangePassword) (Authenticated, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, cp.Email)
	if err != nil {
		return Authenticated{}, err
	}
	return svc.setPassword(ctx, usr, cp.Password)
}

// Logout revokes the session of token and returns the number of deleted sessions.
func (svc *Service) Logout(ctx context.Context, token string) (int, error) {
	return svc.sessions.Revoke(ctx, token)
}

// Verify returns the account owning a valid session token.
func (svc *Service) Verify(ctx context.Context, token string) (User, error) {
	claims, err := svc.sessions.Validate(ctx, token)
	if err != nil {
		return User{}, err
	}
	usr, err := svc.repo.GetUserByEmail(ctx, claims.Email)
	if errors.Cause(err) == ErrNotFound {
		return User{}, session.ErrUnauthenticated
	}
	return usr, err
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) UpdateProfile(ctx context.Context, up UpdateProfile) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, up.Email)
	if err != nil {
		return User{}, err
	}
	if up.Username != nil {
		usr.Username = *up.Username
	}
	if up.Institution != nil {
		usr.Institution = *up.Institution
	}
	if up.StudyHoursPerWeek != nil {
		usr.StudyHoursPerWeek = *up.StudyHoursPerWeek
	}
	if up.Image != nil {
		usr.Image = *up.Image
	}
	if up.DailyStudyHours != nil {
		usr.DailyStudyHours = up.DailyStudyHours
	}
	if up.Password != "" {
		if err = usr.SetPassword(up.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	usr.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

// QueryStudents returns every non-admin account.
func (svc *Service) QueryStudents(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx, QueryFilter{Role: RoleStudent})
}

// Save creates the user, or replaces the existing one of the same email.
func (svc *Service) Save(ctx context.Context, usr User) (User, error) {
	now := NowFunc().UTC()
	usr.UpdatedAt = now
	existing, err := svc.repo.GetUserByEmail(ctx, usr.Email)
	switch errors.Cause(err) {
	case nil:
		usr.ID = existing.ID
		usr.CreatedAt = existing.CreatedAt
		return svc.repo.UpdateUser(ctx, usr)
	case ErrNotFound:
		usr.CreatedAt = now
		if usr.StudyHoursPerWeek == 0 {
			usr.StudyHoursPerWeek = DefaultStudyHoursPerWeek
		}
		return svc.repo.CreateUser(ctx, usr)
	default:
		return User{}, errors.Wrap(err, "finding user by email")
	}
}
