package goal

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Statuses
const (
	StatusPending  = "Pending"
	StatusFinished = "Finished"
)

type Goal struct {
	ID                   string     `json:"_id"`
	UserEmail            string     `json:"userEmail"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Deadline             *core.Date `json:"deadline"`
	TargetCompletionDate *core.Date `json:"targetCompletionDate"`
	Progress             int        `json:"progress"`
	Status               string     `json:"status"`
	CreatedAt            time.Time  `json:"createdAt"` // UTC
	UpdatedAt            time.Time  `json:"updatedAt"` // UTC
}

// IsCompleted reports whether the goal counts as achieved.
func (g *Goal) IsCompleted() bool {
	return g.Status == StatusFinished || g.Progress >= 100
}

// NewGoal contains information needed to create a Goal.
type NewGoal struct {
	Title                string            `json:"title" validate:"required,notblank,max=200"`
	Description          string            `json:"description" validate:"max=2000"`
	Deadline             core.OptionalDate `json:"deadline"`
	TargetCompletionDate core.OptionalDate `json:"targetCompletionDate"`
	Progress             int               `json:"progress" validate:"min=0,max=100"`
}

func (ng *NewGoal) Validate(validate *validator.Validate) error {
	ng.Title = core.CleanString(ng.Title)
	ng.Description = core.CleanString(ng.Description)
	return validate.Struct(ng)
}

// UpdateGoal defines what information may be provided to modify a Goal. Unset fields are left unchanged.
type UpdateGoal struct {
	Title                *string           `json:"title" validate:"omitempty,notblank,max=200"`
	Description          *string           `json:"description" validate:"omitempty,max=2000"`
	Deadline             core.OptionalDate `json:"deadline"`
	TargetCompletionDate core.OptionalDate `json:"targetCompletionDate"`
	Progress             *int              `json:"progress" validate:"omitempty,min=0,max=100"`
	Status               *string           `json:"status" validate:"omitempty,oneof=Pending Finished"`
}

func (ug *UpdateGoal) Validate(validate *validator.Validate) error {
	if ug.Title != nil {
		title := core.CleanString(*ug.Title)
		ug.Title = &title
	}
	return validate.Struct(ug)
}

// normalize keeps progress and status consistent with each other and with the stored goal cur:
// Finished means 100% done, 100% done means Finished and a lower progress without explicit status is Pending.
// Reopening a fully done goal without a new progress sets it back to 99.
func (ug *UpdateGoal) normalize(cur Goal) {
	finished, pending, full, reopened := StatusFinished, StatusPending, 100, 99
	switch {
	case ug.Status != nil && *ug.Status == StatusFinished:
		ug.Progress = &full
	case ug.Progress != nil && *ug.Progress == 100:
		ug.Status = &finished
	case ug.Progress != nil && ug.Status == nil:
		ug.Status = &pending
	case ug.Status != nil && ug.Progress == nil && cur.Progress >= 100:
		ug.Progress = &reopened
	}
}

// IsEmpty reports whether the update changes nothing.
func (ug *UpdateGoal) IsEmpty() bool {
	return ug.Title == nil && ug.Description == nil && !ug.Deadline.Set && !ug.TargetCompletionDate.Set &&
		ug.Progress == nil && ug.Status == nil
}

// Apply copies the set fields onto g.
func (ug *UpdateGoal) Apply(g *Goal) {
	if ug.Title != nil {
		g.Title = *ug.Title
	}
	if ug.Description != nil {
		g.Description = *ug.Description
	}
	if ug.Deadline.Set {
		g.Deadline = ug.Deadline.Ptr()
	}
	if ug.TargetCompletionDate.Set {
		g.TargetCompletionDate = ug.TargetCompletionDate.Ptr()
	}
	if ug.Progress != nil {
		g.Progress = *ug.Progress
	}
	if ug.Status != nil {
		g.Status = *ug.Status
	}
}
