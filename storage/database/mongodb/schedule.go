package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/schedule"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

type taskDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail   string             `bson:"userEmail"`
	Title       string             `bson:"title"`
	Date        string             `bson:"date"`
	StartTime   string             `bson:"startTime"`
	EndTime     string             `bson:"endTime"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type scheduleRepository struct {
	coll *mongo.Collection
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(db *mongo.Database) *scheduleRepository {
	return &scheduleRepository{coll: db.Collection(database.ScheduleCollection)}
}

func (repo *scheduleRepository) boil(t schedule.Task) taskDoc {
	d := taskDoc{
		UserEmail:   t.UserEmail,
		Title:       t.Title,
		Date:        t.Date,
		StartTime:   t.StartTime,
		EndTime:     t.EndTime,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC(),
	}
	if oid, ok := objectID(t.ID); ok {
		d.ID = oid
	}
	return d
}

func (repo *scheduleRepository) unboil(d taskDoc) schedule.Task {
	return schedule.Task{
		ID:          hexID(d.ID),
		UserEmail:   d.UserEmail,
		Title:       d.Title,
		Date:        d.Date,
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (repo *scheduleRepository) CreateTask(ctx context.Context, t schedule.Task) (schedule.Task, error) {
	d := repo.boil(t)
	d.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, d); err != nil {
		return schedule.Task{}, errors.Wrap(err, "inserting task")
	}
	return repo.unboil(d), nil
}

func (repo *scheduleRepository) QueryTasks(ctx context.Context, owner string) ([]schedule.Task, error) {
	opts := sortBy(
		core.DBOrdering{Field: "date", Ascending: true},
		core.DBOrdering{Field: "startTime", Ascending: true},
		core.DBOrdering{Field: "_id", Ascending: true},
	)
	return findAll(ctx, repo.coll, bson.M{"userEmail": owner}, repo.unboil, opts)
}

func (repo *scheduleRepository) GetTask(ctx context.Context, owner, id string) (schedule.Task, error) {
	var d taskDoc
	if err := findOwned(ctx, repo.coll, owner, id, &d, schedule.ErrNotFound); err != nil {
		return schedule.Task{}, err
	}
	return repo.unboil(d), nil
}

func (repo *scheduleRepository) UpdateTask(ctx context.Context, t schedule.Task) error {
	d := repo.boil(t)
	if d.ID.IsZero() {
		return schedule.ErrNotFound
	}
	return replaceOwned(ctx, repo.coll, t.UserEmail, d.ID, d, schedule.ErrNotFound)
}

func (repo *scheduleRepository) DeleteTask(ctx context.Context, owner, id string) error {
	return deleteOwned(ctx, repo.coll, owner, id, schedule.ErrNotFound)
}
