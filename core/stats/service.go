package stats

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

var NowFunc = time.Now // mockable

type (
	Students interface {
		QueryStudents(ctx context.Context) ([]user.User, error)
		GetByEmail(ctx context.Context, email string) (user.User, error)
	}
	Goals interface {
		ListByOwner(ctx context.Context, owner string) ([]goal.Goal, error)
	}
	Tasks interface {
		ListByOwner(ctx context.Context, owner string) ([]schedule.Task, error)
	}
	Logs interface {
		ListByOwner(ctx context.Context, owner string) ([]studylog.Log, error)
	}

	// Service aggregates student activity for the admin dashboard. Reads are not transactional.
	Service struct {
		students Students
		goals    Goals
		tasks    Tasks
		logs     Logs
	}
)

func NewService(students *user.Service, goals *goal.Service, tasks *schedule.Service, logs *studylog.Service) *Service {
	return &Service{students: students, goals: goals, tasks: tasks, logs: logs}
}

// ListStudentsWithStats summarizes every student.
func (svc *Service) ListStudentsWithStats(ctx context.Context) ([]StudentStats, error) {
	students, err := svc.students.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}

	list := make([]StudentStats, 0, len(students))
	for _, usr := range students {
		goals, err := svc.goals.ListByOwner(ctx, usr.Email)
		if err != nil {
			return nil, err
		}
		tasks, err := svc.tasks.ListByOwner(ctx, usr.Email)
		if err != nil {
			return nil, err
		}
		list = append(list, Summarize(usr, goals, tasks))
	}
	return list, nil
}

// ListStudents returns the light list of students.
func (svc *Service) ListStudents(ctx context.Context) ([]user.Summary, error) {
	students, err := svc.students.QueryStudents(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	list := make([]user.Summary, 0, len(students))
	for i := range students {
		list = append(list, students[i].Summary())
	}
	return list, nil
}

// StudentDetailStats fails with user.ErrNotFound for unknown emails.
func (svc *Service) StudentDetailStats(ctx context.Context, email string) (StudentDetail, error) {
	usr, err := svc.students.GetByEmail(ctx, email)
	if err != nil {
		return StudentDetail{}, err
	}
	goals, err := svc.goals.ListByOwner(ctx, usr.Email)
	if err != nil {
		return StudentDetail{}, err
	}
	logs, err := svc.logs.ListByOwner(ctx, usr.Email)
	if err != nil {
		return StudentDetail{}, err
	}
	return Detail(usr, goals, logs, NowFunc()), nil
}
