package studylog

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("study log not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateLog(ctx context.Context, l Log) (Log, error)
		// QueryLogs returns the logs of owner, most recent date and start time first.
		QueryLogs(ctx context.Context, owner string) ([]Log, error)
		GetLog(ctx context.Context, owner, id string) (Log, error)
		UpdateLog(ctx context.Context, l Log) error
		DeleteLog(ctx context.Context, owner, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, owner string, nl NewLog) (Log, error) {
	l := Log{
		UserEmail: owner,
		Date:      nl.Date,
		StartTime: nl.StartTime,
		EndTime:   nl.EndTime,
		Subject:   nl.Subject,
		CreatedAt: NowFunc().UTC(),
	}
	l, err := svc.repo.CreateLog(ctx, l)
	return l, errors.Wrap(err, "creating study log")
}

func (svc *Service) ListByOwner(ctx context.Context, owner string) ([]Log, error) {
	logs, err := svc.repo.QueryLogs(ctx, owner)
	return logs, errors.Wrap(err, "querying study logs")
}

func (svc *Service) Get(ctx context.Context, owner, id string) (Log, error) {
	return svc.repo.GetLog(ctx, owner, id)
}

func (svc *Service) Update(ctx context.Context, owner, id string, ul UpdateLog) (Log, error) {
	l, err := svc.repo.GetLog(ctx, owner, id)
	if err != nil {
		return Log{}, err
	}
	ul.Apply(&l)
	if err = svc.repo.UpdateLog(ctx, l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (svc *Service) Delete(ctx context.Context, owner, id string) error {
	return svc.repo.DeleteLog(ctx, owner, id)
}
