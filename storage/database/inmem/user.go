package inmemdb

import (
	"context"
	"sort"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type userRepository struct {
	db *table[user.User] // keyed by email
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.rows[usr.Email]; ok {
		return user.User{}, user.ErrEmailExists
	}
	usr.ID = newID()
	repo.db.rows[usr.Email] = usr
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.rows[email]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) EmailExists(_ context.Context, email string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.rows[email]
	return ok, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := repo.db.all(func(u user.User) bool {
		return filter.Role == "" || u.Role == filter.Role
	})
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.rows[usr.Email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	usr.ID = orig.ID
	usr.CreatedAt = orig.CreatedAt
	repo.db.rows[usr.Email] = usr
	return usr, nil
}
