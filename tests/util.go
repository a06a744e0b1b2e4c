package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, email, pwd, role string,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	if role == "" {
		role = user.RoleStudent
	}
	usr := user.User{
		Username:          uname,
		Email:             email,
		Role:              role,
		StudyHoursPerWeek: user.DefaultStudyHoursPerWeek,
		CreatedAt:         tstamp,
		UpdatedAt:         tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
