package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateTask(ctx context.Context, t Task) (Task, error)
		// QueryTasks returns the tasks of owner ordered by date then start time.
		QueryTasks(ctx context.Context, owner string) ([]Task, error)
		// GetTask fails with ErrNotFound unless a task matches both id and owner.
		GetTask(ctx context.Context, owner, id string) (Task, error)
		UpdateTask(ctx context.Context, t Task) error
		DeleteTask(ctx context.Context, owner, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, owner string, nt NewTask) (Task, error) {
	t := Task{
		UserEmail:   owner,
		Title:       nt.Title,
		Date:        nt.Date,
		StartTime:   nt.StartTime,
		EndTime:     nt.EndTime,
		Description: nt.Description,
		CreatedAt:   NowFunc().UTC(),
	}
	t, err := svc.repo.CreateTask(ctx, t)
	return t, errors.Wrap(err, "creating task")
}

func (svc *Service) ListByOwner(ctx context.Context, owner string) ([]Task, error) {
	tasks, err := svc.repo.QueryTasks(ctx, owner)
	return tasks, errors.Wrap(err, "querying tasks")
}

func (svc *Service) Get(ctx context.Context, owner, id string) (Task, error) {
	return svc.repo.GetTask(ctx, owner, id)
}

// Update applies upd to the task id of owner. upd must have been validated against that task.
func (svc *Service) Update(ctx context.Context, owner, id string, upd UpdateTask) (Task, error) {
	t, err := svc.repo.GetTask(ctx, owner, id)
	if err != nil {
		return Task{}, err
	}
	upd.Apply(&t)
	if err = svc.repo.UpdateTask(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (svc *Service) Delete(ctx context.Context, owner, id string) error {
	return svc.repo.DeleteTask(ctx, owner, id)
}
