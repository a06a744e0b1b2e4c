package support

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("support query not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateQuery(ctx context.Context, q Query) (Query, error)
		// QueryThreads returns the threads of owner, or of everyone when owner is empty, newest first.
		QueryThreads(ctx context.Context, owner string) ([]Query, error)
		GetQuery(ctx context.Context, id string) (Query, error)
		UpdateQuery(ctx context.Context, q Query) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, owner string, nq NewQuery) (Query, error) {
	now := NowFunc().UTC()
	q := Query{
		UserEmail: owner,
		Subject:   nq.Subject,
		Message:   nq.Message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	q, err := svc.repo.CreateQuery(ctx, q)
	return q, errors.Wrap(err, "creating support query")
}

// ListByOwner returns the questions of owner and the admin messages sent to them.
func (svc *Service) ListByOwner(ctx context.Context, owner string) ([]Query, error) {
	qs, err := svc.repo.QueryThreads(ctx, owner)
	return qs, errors.Wrap(err, "querying support threads")
}

func (svc *Service) ListAll(ctx context.Context) ([]Query, error) {
	qs, err := svc.repo.QueryThreads(ctx, "")
	return qs, errors.Wrap(err, "querying all support threads")
}

// Reply answers the query id, replacing any previous reply.
func (svc *Service) Reply(ctx context.Context, id string, r Reply) (Query, error) {
	q, err := svc.repo.GetQuery(ctx, id)
	if err != nil {
		return Query{}, err
	}
	q.Reply = r.Reply
	q.Status = StatusReplied
	q.UpdatedAt = NowFunc().UTC()
	if err = svc.repo.UpdateQuery(ctx, q); err != nil {
		return Query{}, err
	}
	return q, nil
}

// SendMessage starts a thread from the admins to a student. The caller checks that the student exists.
func (svc *Service) SendMessage(ctx context.Context, am AdminMessage) (Query, error) {
	now := NowFunc().UTC()
	q := Query{
		UserEmail:   am.UserEmail,
		Subject:     am.Subject,
		Message:     am.Message,
		Status:      StatusSent,
		IsFromAdmin: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q, err := svc.repo.CreateQuery(ctx, q)
	return q, errors.Wrap(err, "creating admin message")
}
