package feedback

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("feedback not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateFeedback(ctx context.Context, f Feedback) (Feedback, error)
		// QueryFeedback returns the feedback of owner, or of everyone when owner is empty, newest first.
		QueryFeedback(ctx context.Context, owner string) ([]Feedback, error)
		// GetFeedback matches id, and owner unless it is empty.
		GetFeedback(ctx context.Context, owner, id string) (Feedback, error)
		UpdateFeedback(ctx context.Context, f Feedback) error
		// DeleteFeedback matches id, and owner unless it is empty.
		DeleteFeedback(ctx context.Context, owner, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, owner string, nf NewFeedback) (Feedback, error) {
	now := NowFunc().UTC()
	f := Feedback{
		UserEmail: owner,
		Subject:   nf.Subject,
		Category:  nf.Category,
		Rating:    nf.Rating,
		Message:   nf.Message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f, err := svc.repo.CreateFeedback(ctx, f)
	return f, errors.Wrap(err, "creating feedback")
}

func (svc *Service) ListByOwner(ctx context.Context, owner string) ([]Feedback, error) {
	fbs, err := svc.repo.QueryFeedback(ctx, owner)
	return fbs, errors.Wrap(err, "querying feedback")
}

// ListAll returns everyone's feedback, for admins.
func (svc *Service) ListAll(ctx context.Context) ([]Feedback, error) {
	fbs, err := svc.repo.QueryFeedback(ctx, "")
	return fbs, errors.Wrap(err, "querying all feedback")
}

func (svc *Service) Update(ctx context.Context, owner, id string, uf UpdateFeedback) (Feedback, error) {
	f, err := svc.repo.GetFeedback(ctx, owner, id)
	if err != nil {
		return Feedback{}, err
	}
	uf.Apply(&f)
	f.UpdatedAt = NowFunc().UTC()
	if err = svc.repo.UpdateFeedback(ctx, f); err != nil {
		return Feedback{}, err
	}
	return f, nil
}

// SetStatus changes the status of any feedback, for admins.
func (svc *Service) SetStatus(ctx context.Context, id, status string) error {
	f, err := svc.repo.GetFeedback(ctx, "", id)
	if err != nil {
		return err
	}
	f.Status = status
	f.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateFeedback(ctx, f)
}

func (svc *Service) Delete(ctx context.Context, owner, id string) error {
	return svc.repo.DeleteFeedback(ctx, owner, id)
}

// DeleteAny removes any feedback, for admins.
func (svc *Service) DeleteAny(ctx context.Context, id string) error {
	return svc.repo.DeleteFeedback(ctx, "", id)
}
