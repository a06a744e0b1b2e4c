package inmemdb

import (
	"context"
	"time"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
)

type goalRepository struct {
	db *table[goal.Goal]
}

var _ goal.Repository = (*goalRepository)(nil) // interface compliance check

func NewGoalRepository(db *DB) *goalRepository {
	return &goalRepository{db: db.goal}
}

func (repo *goalRepository) CreateGoal(_ context.Context, g goal.Goal) (goal.Goal, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	g.ID = newID()
	repo.db.rows[g.ID] = g
	return g, nil
}

func (repo *goalRepository) QueryGoals(_ context.Context, owner string) ([]goal.Goal, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	goals := repo.db.all(func(g goal.Goal) bool { return g.UserEmail == owner })
	sortByCreatedDesc(goals,
		func(g goal.Goal) time.Time { return g.CreatedAt },
		func(g goal.Goal) string { return g.ID },
	)
	return goals, nil
}

func (repo *goalRepository) GetGoal(_ context.Context, owner, id string) (goal.Goal, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	g, ok := repo.db.rows[id]
	if !ok || g.UserEmail != owner {
		return goal.Goal{}, goal.ErrNotFound
	}
	return g, nil
}

func (repo *goalRepository) UpdateGoal(_ context.Context, owner, id string, ug goal.UpdateGoal, updatedAt time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	g, ok := repo.db.rows[id]
	if !ok || g.UserEmail != owner {
		return goal.ErrNotFound
	}
	ug.Apply(&g)
	g.UpdatedAt = updatedAt
	repo.db.rows[id] = g
	return nil
}

func (repo *goalRepository) DeleteGoal(_ context.Context, owner, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	g, ok := repo.db.rows[id]
	if !ok || g.UserEmail != owner {
		return goal.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
