package inmemdb

import (
	"context"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
)

type sessionRepository struct {
	db *table[session.Session] // keyed by token
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) *sessionRepository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) CreateSession(_ context.Context, s session.Session) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = newID()
	repo.db.rows[s.Token] = s
	return nil
}

func (repo *sessionRepository) GetSession(_ context.Context, email, token string) (session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.rows[token]; ok && s.Email == email {
		return s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) DeleteSession(_ context.Context, email, token string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if s, ok := repo.db.rows[token]; ok && s.Email == email {
		delete(repo.db.rows, token)
		return 1, nil
	}
	return 0, nil
}
