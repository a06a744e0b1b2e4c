package feedback

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Statuses
const (
	StatusPending  = "Pending"
	StatusResolved = "Resolved"
)

var errInvalidRating = errors.New("rating must be a whole number")

// Rating is a 1 to 5 score. Clients may send it as a number or a numeric string.
type Rating int

func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return errInvalidRating
	}
	*r = Rating(n)
	return nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(r))
}

type Feedback struct {
	ID        string    `json:"_id"`
	UserEmail string    `json:"userEmail"`
	Subject   string    `json:"subject"`
	Category  string    `json:"category"`
	Rating    Rating    `json:"rating"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

type NewFeedback struct {
	Subject  string `json:"subject" validate:"required,notblank,max=200"`
	Category string `json:"category" validate:"max=50"`
	Rating   Rating `json:"rating" validate:"required,min=1,max=5"`
	Message  string `json:"message" validate:"required,notblank,max=5000"`
}

func (nf *NewFeedback) Validate(validate *validator.Validate) error {
	nf.Subject = core.CleanString(nf.Subject)
	nf.Category = core.CleanString(nf.Category)
	if nf.Category == "" {
		nf.Category = "General"
	}
	nf.Message = core.CleanString(nf.Message)
	return validate.Struct(nf)
}

// UpdateFeedback lets the author edit their feedback. Nil fields are left unchanged.
type UpdateFeedback struct {
	Subject  *string `json:"subject" validate:"omitempty,notblank,max=200"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Rating   *Rating `json:"rating" validate:"omitempty,min=1,max=5"`
	Message  *string `json:"message" validate:"omitempty,notblank,max=5000"`
}

func (uf *UpdateFeedback) Validate(validate *validator.Validate) error {
	return validate.Struct(uf)
}

func (uf *UpdateFeedback) Apply(f *Feedback) {
	if uf.Subject != nil {
		f.Subject = core.CleanString(*uf.Subject)
	}
	if uf.Category != nil {
		f.Category = core.CleanString(*uf.Category)
	}
	if uf.Rating != nil {
		f.Rating = *uf.Rating
	}
	if uf.Message != nil {
		f.Message = core.CleanString(*uf.Message)
	}
}

// SetStatus is sent by admins to triage feedback.
type SetStatus struct {
	Status string `json:"status" validate:"required,oneof=Pending Resolved"`
}

func (ss *SetStatus) Validate(validate *validator.Validate) error {
	ss.Status = core.CleanString(ss.Status)
	return validate.Struct(ss)
}
