package support

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Statuses
const (
	StatusPending = "Pending" // student question awaiting a reply
	StatusReplied = "Replied"
	StatusSent    = "Sent" // message started by an admin
)

// Query is a support thread between a student and the admins.
type Query struct {
	ID          string    `json:"_id"`
	UserEmail   string    `json:"userEmail"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Reply       string    `json:"reply,omitempty"`
	Status      string    `json:"status"`
	IsFromAdmin bool      `json:"isFromAdmin"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
	UpdatedAt   time.Time `json:"updatedAt"` // UTC
}

type NewQuery struct {
	Subject string `json:"subject" validate:"required,notblank,max=200"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

func (nq *NewQuery) Validate(validate *validator.Validate) error {
	nq.Subject = core.CleanString(nq.Subject)
	nq.Message = core.CleanString(nq.Message)
	return validate.Struct(nq)
}

// AdminMessage is a thread started by an admin towards a student.
type AdminMessage struct {
	UserEmail string `json:"userEmail" validate:"required,email"`
	Subject   string `json:"subject" validate:"required,notblank,max=200"`
	Message   string `json:"message" validate:"required,notblank,max=5000"`
}

func (am *AdminMessage) Validate(validate *validator.Validate) error {
	am.UserEmail = core.CleanString(am.UserEmail, true /* lower */)
	am.Subject = core.CleanString(am.Subject)
	am.Message = core.CleanString(am.Message)
	return validate.Struct(am)
}

type Reply struct {
	Reply string `json:"reply" validate:"required,notblank,max=5000"`
}

func (r *Reply) Validate(validate *validator.Validate) error {
	r.Reply = core.CleanString(r.Reply)
	return validate.Struct(r)
}
