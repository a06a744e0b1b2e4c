package schedule

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Task is a planned block of time on a given day.
type Task struct {
	ID          string    `json:"_id"`
	UserEmail   string    `json:"userEmail"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`      // YYYY-MM-DD
	StartTime   string    `json:"startTime"` // HH:MM
	EndTime     string    `json:"endTime"`   // HH:MM
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"` // UTC
}

// Minutes is the planned duration, 0 when the times are inconsistent.
func (t *Task) Minutes() int {
	return core.DurationMinutes(t.StartTime, t.EndTime)
}

type NewTask struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Date        string `json:"date" validate:"required,ymd"`
	StartTime   string `json:"startTime" validate:"required,hhmm"`
	EndTime     string `json:"endTime" validate:"required,hhmm"`
	Description string `json:"description" validate:"max=2000"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Date = core.CleanString(nt.Date)
	nt.StartTime = core.CleanString(nt.StartTime)
	nt.EndTime = core.CleanString(nt.EndTime)
	nt.Description = core.CleanString(nt.Description)
	return validate.Struct(nt)
}

// UpdateTask defines what information may be provided to modify a Task. Nil fields are left unchanged.
type UpdateTask struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Date        *string `json:"date" validate:"omitempty,ymd"`
	StartTime   *string `json:"startTime" validate:"omitempty,hhmm"`
	EndTime     *string `json:"endTime" validate:"omitempty,hhmm"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// Validate checks the update against the current state of the task, so that start and end stay ordered.
func (upd *UpdateTask) Validate(validate *validator.Validate, current Task) error {
	if err := validate.Struct(upd); err != nil {
		return err
	}
	merged := current
	upd.Apply(&merged)
	if merged.Minutes() == 0 {
		return core.NewFieldError("endTime", "endTime must be after startTime")
	}
	return nil
}

// Apply copies the set fields onto t.
func (upd *UpdateTask) Apply(t *Task) {
	if upd.Title != nil {
		t.Title = core.CleanString(*upd.Title)
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.StartTime != nil {
		t.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		t.EndTime = *upd.EndTime
	}
	if upd.Description != nil {
		t.Description = core.CleanString(*upd.Description)
	}
}

// InitValidators registers the schedule validations. core.InitValidators must run first.
func InitValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		nt := sl.Current().Interface().(NewTask)
		core.ValidateTimeRange(sl, nt.StartTime, nt.EndTime)
	}, NewTask{})
}
