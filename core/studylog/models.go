package studylog

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Log is a study session that actually happened.
type Log struct {
	ID        string    `json:"_id"`
	UserEmail string    `json:"userEmail"`
	Date      string    `json:"date"`      // YYYY-MM-DD
	StartTime string    `json:"startTime"` // HH:MM
	EndTime   string    `json:"endTime"`   // HH:MM
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

func (l *Log) Minutes() int {
	return core.DurationMinutes(l.StartTime, l.EndTime)
}

type NewLog struct {
	Date      string `json:"date" validate:"required,ymd"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
	Subject   string `json:"subject" validate:"max=200"`
}

func (nl *NewLog) Validate(validate *validator.Validate) error {
	nl.Date = core.CleanString(nl.Date)
	nl.StartTime = core.CleanString(nl.StartTime)
	nl.EndTime = core.CleanString(nl.EndTime)
	nl.Subject = core.CleanString(nl.Subject)
	return validate.Struct(nl)
}

type UpdateLog struct {
	Date      *string `json:"date" validate:"omitempty,ymd"`
	StartTime *string `json:"startTime" validate:"omitempty,hhmm"`
	EndTime   *string `json:"endTime" validate:"omitempty,hhmm"`
	Subject   *string `json:"subject" validate:"omitempty,max=200"`
}

// Validate checks the update against the current state of the log, so that start and end stay ordered.
func (ul *UpdateLog) Validate(validate *validator.Validate, current Log) error {
	if err := validate.Struct(ul); err != nil {
		return err
	}
	merged := current
	ul.Apply(&merged)
	if merged.Minutes() == 0 {
		return core.NewFieldError("endTime", "endTime must be after startTime")
	}
	return nil
}

func (ul *UpdateLog) Apply(l *Log) {
	if ul.Date != nil {
		l.Date = *ul.Date
	}
	if ul.StartTime != nil {
		l.StartTime = *ul.StartTime
	}
	if ul.EndTime != nil {
		l.EndTime = *ul.EndTime
	}
	if ul.Subject != nil {
		l.Subject = core.CleanString(*ul.Subject)
	}
}

// InitValidators registers the study log validations. core.InitValidators must run first.
func InitValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		nl := sl.Current().Interface().(NewLog)
		core.ValidateTimeRange(sl, nl.StartTime, nl.EndTime)
	}, NewLog{})
}
