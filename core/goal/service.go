package goal

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("goal not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateGoal(ctx context.Context, g Goal) (Goal, error)
		// QueryGoals returns the goals of owner, newest first.
		QueryGoals(ctx context.Context, owner string) ([]Goal, error)
		// GetGoal fails with ErrNotFound unless a goal matches both id and owner.
		GetGoal(ctx context.Context, owner, id string) (Goal, error)
		// UpdateGoal fails with ErrNotFound unless a goal matches both id and owner.
		UpdateGoal(ctx context.Context, owner, id string, ug UpdateGoal, updatedAt time.Time) error
		DeleteGoal(ctx context.Context, owner, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, owner string, ng NewGoal) (Goal, error) {
	now := NowFunc().UTC()
	g := Goal{
		UserEmail:            owner,
		Title:                ng.Title,
		Description:          ng.Description,
		Deadline:             ng.Deadline.Ptr(),
		TargetCompletionDate: ng.TargetCompletionDate.Ptr(),
		Progress:             ng.Progress,
		Status:               StatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if g.Progress == 100 {
		g.Status = StatusFinished
	}
	g, err := svc.repo.CreateGoal(ctx, g)
	return g, errors.Wrap(err, "creating goal")
}

func (svc *Service) ListByOwner(ctx context.Context, owner string) ([]Goal, error) {
	goals, err := svc.repo.QueryGoals(ctx, owner)
	return goals, errors.Wrap(err, "querying goals")
}

// Update applies ug to the goal id of owner. Repeating the same update succeeds.
func (svc *Service) Update(ctx context.Context, owner, id string, ug UpdateGoal) error {
	cur, err := svc.repo.GetGoal(ctx, owner, id)
	if err != nil {
		return err
	}
	ug.normalize(cur)
	return svc.repo.UpdateGoal(ctx, owner, id, ug, NowFunc().UTC())
}

func (svc *Service) Delete(ctx context.Context, owner, id string) error {
	return svc.repo.DeleteGoal(ctx, owner, id)
}
