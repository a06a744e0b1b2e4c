package inmemdb

import (
	"context"
	"time"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
)

type feedbackRepository struct {
	db *table[feedback.Feedback]
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) *feedbackRepository {
	return &feedbackRepository{db: db.feedback}
}

func ownedBy(owner, email string) bool {
	return owner == "" || owner == email
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	f.ID = newID()
	repo.db.rows[f.ID] = f
	return f, nil
}

func (repo *feedbackRepository) QueryFeedback(_ context.Context, owner string) ([]feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fbs := repo.db.all(func(f feedback.Feedback) bool { return ownedBy(owner, f.UserEmail) })
	sortByCreatedDesc(fbs,
		func(f feedback.Feedback) time.Time { return f.CreatedAt },
		func(f feedback.Feedback) string { return f.ID },
	)
	return fbs, nil
}

func (repo *feedbackRepository) GetFeedback(_ context.Context, owner, id string) (feedback.Feedback, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	f, ok := repo.db.rows[id]
	if !ok || !ownedBy(owner, f.UserEmail) {
		return feedback.Feedback{}, feedback.ErrNotFound
	}
	return f, nil
}

func (repo *feedbackRepository) UpdateFeedback(_ context.Context, f feedback.Feedback) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[f.ID]; !ok {
		return feedback.ErrNotFound
	}
	repo.db.rows[f.ID] = f
	return nil
}

func (repo *feedbackRepository) DeleteFeedback(_ context.Context, owner, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	f, ok := repo.db.rows[id]
	if !ok || !ownedBy(owner, f.UserEmail) {
		return feedback.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
