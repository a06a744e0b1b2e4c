package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

func TestSweep(t *testing.T) {
	db := Open()
	ctx := context.Background()
	now := time.Now().UTC()

	sessions := NewSessionRepository(db)
	require.NoError(t, sessions.CreateSession(ctx, session.Session{Email: "a@x.com", Token: "old", CreatedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, sessions.CreateSession(ctx, session.Session{Email: "a@x.com", Token: "fresh", CreatedAt: now}))

	codes := NewOTPRepository(db)
	require.NoError(t, codes.UpsertCode(ctx, otp.Record{Email: "a@x.com", Code: "123456", CreatedAt: now.Add(-10 * time.Minute)}))
	require.NoError(t, codes.UpsertCode(ctx, otp.Record{Email: "b@x.com", Code: "654321", CreatedAt: now}))

	gotSessions, gotCodes := db.sweep(now, time.Hour, 5*time.Minute)
	assert.Equal(t, 1, gotSessions)
	assert.Equal(t, 1, gotCodes)

	_, err := sessions.GetSession(ctx, "a@x.com", "old")
	assert.Equal(t, session.ErrNotFound, err)
	_, err = sessions.GetSession(ctx, "a@x.com", "fresh")
	assert.NoError(t, err)
	_, err = codes.GetCode(ctx, "a@x.com")
	assert.Equal(t, otp.ErrNotFound, err)
	_, err = codes.GetCode(ctx, "b@x.com")
	assert.NoError(t, err)
}

func TestStartSweeperStops(t *testing.T) {
	db := Open()
	ctx, cancel := context.WithCancel(context.Background())
	db.StartSweeper(ctx, nil, nil, time.Hour) // never ticks
	cancel()
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(Open())
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	alice, err := repo.CreateUser(ctx, user.User{Email: "alice@x.com", Role: user.RoleStudent, CreatedAt: t0})
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)

	_, err = repo.CreateUser(ctx, user.User{Email: "alice@x.com"})
	assert.Equal(t, user.ErrEmailExists, err)

	_, err = repo.CreateUser(ctx, user.User{Email: "bob@x.com", Role: user.RoleStudent, CreatedAt: t0.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.CreateUser(ctx, user.User{Email: "root@x.com", Role: user.RoleAdmin, CreatedAt: t0.Add(2 * time.Hour)})
	require.NoError(t, err)

	students, err := repo.QueryUsers(ctx, user.QueryFilter{Role: user.RoleStudent})
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "bob@x.com", students[0].Email)
	assert.Equal(t, "alice@x.com", students[1].Email)

	all, err := repo.QueryUsers(ctx, user.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alice.Username = "alicia"
	alice.ID = "forged"
	updated, err := repo.UpdateUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.NotEqual(t, "forged", updated.ID, "ids are immutable")
	assert.Equal(t, t0, updated.CreatedAt)

	_, err = repo.UpdateUser(ctx, user.User{Email: "nobody@x.com"})
	assert.Equal(t, user.ErrNotFound, err)
}

func TestGoalRepository(t *testing.T) {
	repo := NewGoalRepository(Open())
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	first, err := repo.CreateGoal(ctx, goal.Goal{UserEmail: "alice@x.com", Title: "first", CreatedAt: t0})
	require.NoError(t, err)
	second, err := repo.CreateGoal(ctx, goal.Goal{UserEmail: "alice@x.com", Title: "second", CreatedAt: t0.Add(time.Minute)})
	require.NoError(t, err)
	_, err = repo.CreateGoal(ctx, goal.Goal{UserEmail: "bob@x.com", Title: "bob's", CreatedAt: t0})
	require.NoError(t, err)

	goals, err := repo.QueryGoals(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, goals[0].ID)
	assert.Equal(t, first.ID, goals[1].ID)

	got, err := repo.GetGoal(ctx, "alice@x.com", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	_, err = repo.GetGoal(ctx, "bob@x.com", first.ID)
	assert.Equal(t, goal.ErrNotFound, err)

	title := "renamed"
	ug := goal.UpdateGoal{Title: &title}
	assert.Equal(t, goal.ErrNotFound, repo.UpdateGoal(ctx, "bob@x.com", first.ID, ug, t0))
	require.NoError(t, repo.UpdateGoal(ctx, "alice@x.com", first.ID, ug, t0.Add(time.Hour)))
	require.NoError(t, repo.UpdateGoal(ctx, "alice@x.com", first.ID, ug, t0.Add(time.Hour)), "same update twice")

	goals, err = repo.QueryGoals(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "renamed", goals[1].Title)
	assert.Equal(t, t0.Add(time.Hour), goals[1].UpdatedAt)

	assert.Equal(t, goal.ErrNotFound, repo.DeleteGoal(ctx, "bob@x.com", first.ID))
	require.NoError(t, repo.DeleteGoal(ctx, "alice@x.com", first.ID))
	assert.Equal(t, goal.ErrNotFound, repo.DeleteGoal(ctx, "alice@x.com", first.ID))
}

func TestScheduleRepositoryOrder(t *testing.T) {
	repo := NewScheduleRepository(Open())
	ctx := context.Background()

	for _, tk := range []schedule.Task{
		{UserEmail: "alice@x.com", Title: "c", Date: "2024-05-02", StartTime: "08:00", EndTime: "09:00"},
		{UserEmail: "alice@x.com", Title: "b", Date: "2024-05-01", StartTime: "14:00", EndTime: "15:00"},
		{UserEmail: "alice@x.com", Title: "a", Date: "2024-05-01", StartTime: "09:00", EndTime: "10:00"},
		{UserEmail: "bob@x.com", Title: "z", Date: "2024-04-01", StartTime: "09:00", EndTime: "10:00"},
	} {
		_, err := repo.CreateTask(ctx, tk)
		require.NoError(t, err)
	}

	tasks, err := repo.QueryTasks(ctx, "alice@x.com")
	require.NoError(t, err)
	titles := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		titles = append(titles, tk.Title)
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles)

	foreign := tasks[0]
	foreign.UserEmail = "bob@x.com"
	assert.Equal(t, schedule.ErrNotFound, repo.UpdateTask(ctx, foreign))
	_, err = repo.GetTask(ctx, "bob@x.com", tasks[0].ID)
	assert.Equal(t, schedule.ErrNotFound, err)
}
