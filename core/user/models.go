package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// DefaultStudyHoursPerWeek is the weekly target of new accounts.
const DefaultStudyHoursPerWeek = 25

var (
	AllRoles = []string{RoleStudent, RoleAdmin}
	Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

type User struct {
	ID                string             `json:"_id"`
	Email             string             `json:"email"`
	Username          string             `json:"username"`
	Role              string             `json:"role"`
	Institution       string             `json:"institution,omitempty"`
	Image             string             `json:"image"`
	StudyHoursPerWeek float64            `json:"studyHoursPerWeek"`
	DailyStudyHours   map[string]float64 `json:"dailyStudyHours"`
	PasswordHash      []byte             `json:"-"`
	CreatedAt         time.Time          `json:"createdAt"` // UTC
	UpdatedAt         time.Time          `json:"updatedAt"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// Summary is the light representation used by admin pickers.
type Summary struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Institution string `json:"institution,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{Email: u.Email, Username: u.Username, Institution: u.Institution}
}

// EmailRequest asks for a verification code to be sent to Email.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (er *EmailRequest) Validate(validate *validator.Validate) error {
	er.Email = core.CleanString(er.Email, true /* lower */)
	return validate.Struct(er)
}

// NewUser contains information needed to complete a signup.
type NewUser struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,notblank,max=50"`
	Password    string `json:"password" validate:"required"`
	Institution string `json:"institution" validate:"max=120"`
	OTP         string `json:"otp" validate:"required,numeric,len=6"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Username = core.CleanString(nu.Username)
	nu.Institution = core.CleanString(nu.Institution)
	nu.OTP = core.CleanString(nu.OTP)
	return validate.Struct(nu)
}

// ResetPassword sets a new password on an existing account once the emailed code is confirmed.
type ResetPassword struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	OTP      string `json:"otp" validate:"required,numeric,len=6"`
}

func (rp *ResetPassword) Validate(validate *validator.Validate) error {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	rp.OTP = core.CleanString(rp.OTP)
	return validate.Struct(rp)
}

type Login struct {
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (l *Login) Validate(validate *validator.Validate) error {
	l.User = core.CleanString(l.User, true /* lower */)
	return validate.Struct(l)
}

// ChangePassword is sent by an authenticated user; Email and Username are filled from the session.
type ChangePassword struct {
	Email    string `json:"-"`
	Username string `json:"-"`
	Password string `json:"password" validate:"required"`
}

func (cp *ChangePassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}

// UpdateProfile defines what information may be provided to modify a profile. Nil fields are left unchanged.
type UpdateProfile struct {
	Email             string             `json:"-"`
	Username          *string            `json:"username" validate:"omitempty,notblank,max=50"`
	Password          string             `json:"password"`
	Institution       *string            `json:"institution" validate:"omitempty,max=120"`
	StudyHoursPerWeek *float64           `json:"studyHoursPerWeek" validate:"omitempty,min=0,max=168"`
	Image             *string            `json:"image" validate:"omitempty,max=2800000"`
	DailyStudyHours   map[string]float64 `json:"dailyStudyHours" validate:"omitempty,weekdays,dive,min=0,max=24"`

	current *User // for password similarity checks
}

func (up *UpdateProfile) Validate(validate *validator.Validate, current User) error {
	if up.Username != nil {
		uname := core.CleanString(*up.Username)
		up.Username = &uname
	}
	if up.Institution != nil {
		inst := core.CleanString(*up.Institution)
		up.Institution = &inst
	}
	up.current = &current
	return validate.Struct(up)
}

// QueryFilter narrows user listings. Zero values match everything.
type QueryFilter struct {
	Role string
}
