package inmemdb

import (
	"context"
	"time"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
)

type supportRepository struct {
	db *table[support.Query]
}

var _ support.Repository = (*supportRepository)(nil) // interface compliance check

func NewSupportRepository(db *DB) *supportRepository {
	return &supportRepository{db: db.support}
}

func (repo *supportRepository) CreateQuery(_ context.Context, q support.Query) (support.Query, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	q.ID = newID()
	repo.db.rows[q.ID] = q
	return q, nil
}

func (repo *supportRepository) QueryThreads(_ context.Context, owner string) ([]support.Query, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	qs := repo.db.all(func(q support.Query) bool { return ownedBy(owner, q.UserEmail) })
	sortByCreatedDesc(qs,
		func(q support.Query) time.Time { return q.CreatedAt },
		func(q support.Query) string { return q.ID },
	)
	return qs, nil
}

func (repo *supportRepository) GetQuery(_ context.Context, id string) (support.Query, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.rows[id]; ok {
		return q, nil
	}
	return support.Query{}, support.ErrNotFound
}

func (repo *supportRepository) UpdateQuery(_ context.Context, q support.Query) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[q.ID]; !ok {
		return support.ErrNotFound
	}
	repo.db.rows[q.ID] = q
	return nil
}
