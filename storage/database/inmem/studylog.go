package inmemdb

import (
	"context"
	"sort"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
)

type studyLogRepository struct {
	db *table[studylog.Log]
}

var _ studylog.Repository = (*studyLogRepository)(nil) // interface compliance check

func NewStudyLogRepository(db *DB) *studyLogRepository {
	return &studyLogRepository{db: db.studyLog}
}

func (repo *studyLogRepository) CreateLog(_ context.Context, l studylog.Log) (studylog.Log, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	l.ID = newID()
	repo.db.rows[l.ID] = l
	return l, nil
}

func (repo *studyLogRepository) QueryLogs(_ context.Context, owner string) ([]studylog.Log, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	logs := repo.db.all(func(l studylog.Log) bool { return l.UserEmail == owner })
	sort.Slice(logs, func(i, j int) bool {
		if logs[i].Date != logs[j].Date {
			return logs[i].Date > logs[j].Date
		}
		if logs[i].StartTime != logs[j].StartTime {
			return logs[i].StartTime > logs[j].StartTime
		}
		return logs[i].ID > logs[j].ID
	})
	return logs, nil
}

func (repo *studyLogRepository) GetLog(_ context.Context, owner, id string) (studylog.Log, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	l, ok := repo.db.rows[id]
	if !ok || l.UserEmail != owner {
		return studylog.Log{}, studylog.ErrNotFound
	}
	return l, nil
}

func (repo *studyLogRepository) UpdateLog(_ context.Context, l studylog.Log) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[l.ID]
	if !ok || orig.UserEmail != l.UserEmail {
		return studylog.ErrNotFound
	}
	repo.db.rows[l.ID] = l
	return nil
}

func (repo *studyLogRepository) DeleteLog(_ context.Context, owner, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	l, ok := repo.db.rows[id]
	if !ok || l.UserEmail != owner {
		return studylog.ErrNotFound
	}
	delete(repo.db.rows, id)
	return nil
}
