package inmemdb

import (
	"context"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
)

type otpRepository struct {
	db *table[otp.Record] // keyed by email
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(db *DB) *otpRepository {
	return &otpRepository{db: db.otp}
}

func (repo *otpRepository) UpsertCode(_ context.Context, rec otp.Record) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows[rec.Email] = rec
	return nil
}

func (repo *otpRepository) GetCode(_ context.Context, email string) (otp.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rec, ok := repo.db.rows[email]; ok {
		return rec, nil
	}
	return otp.Record{}, otp.ErrNotFound
}

func (repo *otpRepository) DeleteCode(_ context.Context, email string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.rows, email)
	return nil
}

func (repo *otpRepository) IncrementAttempts(_ context.Context, email string) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rec, ok := repo.db.rows[email]
	if !ok {
		return 0, otp.ErrNotFound
	}
	rec.Attempts++
	repo.db.rows[email] = rec
	return rec.Attempts, nil
}
