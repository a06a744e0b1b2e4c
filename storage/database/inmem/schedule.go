package inmemdb

import (
	"context"
	"sort"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
)

type scheduleRepository struct {
	db *table[schedule.Task]
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *DB) *scheduleRepository {
	return &scheduleRepository{db: db.schedule}
}

func (repo *scheduleRepository) CreateTask(_ context.Context, t schedule.Task) (schedule.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	t.ID = newID()
	repo.db.rows[t.ID] = t
	return t, nil
}

func (repo *scheduleRepository) QueryTasks(_ context.Context, owner string) ([]schedule.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	tasks := repo.db.all(func(t schedule.Task) bool { return t.UserEmail == owner })
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		if tasks[i].StartTime != tasks[j].StartTime {
			return tasks[i].StartTime < tasks[j].StartTime
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (repo *scheduleRepository) GetTask(_ context.Context, owner, id string) (schedule.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	t, ok := repo.db.rows[id]
	if !ok || t.UserEmail != owner {
		return schedule.Task{}, schedule.ErrNotFound
	}
	return t, nil
}

func (repo *scheduleRepository) UpdateTask(_ context.Context, t schedule.Task) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[t.ID]
	if !ok || orig.UserEmail != t.UserEmail {
		return schedule.ErrNotFound
	}
	repo.db.rows[t.ID] = t
	return nil
}

func (repo *scheduleRepository) DeleteTask(_ context.Context, owner, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	t, ok := repo.db.rows[id]
	if !ok || t.UserEmail != owner {
		return schedule.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
