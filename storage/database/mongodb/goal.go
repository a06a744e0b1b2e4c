package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/goal"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

type goalDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail            string             `bson:"userEmail"`
	Title                string             `bson:"title"`
	Description          string             `bson:"description"`
	Deadline             *time.Time         `bson:"deadline"`
	TargetCompletionDate *time.Time         `bson:"targetCompletionDate"`
	Progress             int                `bson:"progress"`
	Status               string             `bson:"status"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

func datePtr(t *time.Time) *core.Date {
	if t == nil {
		return nil
	}
	d := core.NewDate(t.UTC())
	return &d
}

func timePtr(d *core.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// optionalTime is nil for an explicitly cleared date.
func optionalTime(od core.OptionalDate) *time.Time {
	return timePtr(od.Ptr())
}

type goalRepository struct {
	coll *mongo.Collection
}

var _ goal.Repository = (*goalRepository)(nil) // interface compliance check

func NewGoalRepository(db *mongo.Database) *goalRepository {
	return &goalRepository{coll: db.Collection(database.GoalsCollection)}
}

func (repo *goalRepository) unboil(d goalDoc) goal.Goal {
	return goal.Goal{
		ID:                   hexID(d.ID),
		UserEmail:            d.UserEmail,
		Title:                d.Title,
		Description:          d.Description,
		Deadline:             datePtr(d.Deadline),
		TargetCompletionDate: datePtr(d.TargetCompletionDate),
		Progress:             d.Progress,
		Status:               d.Status,
		CreatedAt:            d.CreatedAt.UTC(),
		UpdatedAt:            d.UpdatedAt.UTC(),
	}
}

func (repo *goalRepository) CreateGoal(ctx context.Context, g goal.Goal) (goal.Goal, error) {
	d := goalDoc{
		ID:                   primitive.NewObjectID(),
		UserEmail:            g.UserEmail,
		Title:                g.Title,
		Description:          g.Description,
		Deadline:             timePtr(g.Deadline),
		TargetCompletionDate: timePtr(g.TargetCompletionDate),
		Progress:             g.Progress,
		Status:               g.Status,
		CreatedAt:            g.CreatedAt.UTC(),
		UpdatedAt:            g.UpdatedAt.UTC(),
	}
	if _, err := repo.coll.InsertOne(ctx, d); err != nil {
		return goal.Goal{}, errors.Wrap(err, "inserting goal")
	}
	return repo.unboil(d), nil
}

func (repo *goalRepository) QueryGoals(ctx context.Context, owner string) ([]goal.Goal, error) {
	opts := sortBy(core.NewestFirst...)
	return findAll(ctx, repo.coll, bson.M{"userEmail": owner}, repo.unboil, opts)
}

func (repo *goalRepository) GetGoal(ctx context.Context, owner, id string) (goal.Goal, error) {
	var d goalDoc
	if err := findOwned(ctx, repo.coll, owner, id, &d, goal.ErrNotFound); err != nil {
		return goal.Goal{}, err
	}
	return repo.unboil(d), nil
}

func (repo *goalRepository) UpdateGoal(ctx context.Context, owner, id string, ug goal.UpdateGoal, updatedAt time.Time) error {
	oid, ok := objectID(id)
	if !ok {
		return goal.ErrNotFound
	}
	set := bson.M{"updatedAt": updatedAt.UTC()}
	if ug.Title != nil {
		set["title"] = *ug.Title
	}
	if ug.Description != nil {
		set["description"] = *ug.Description
	}
	if ug.Deadline.Set {
		set["deadline"] = optionalTime(ug.Deadline)
	}
	if ug.TargetCompletionDate.Set {
		set["targetCompletionDate"] = optionalTime(ug.TargetCompletionDate)
	}
	if ug.Progress != nil {
		set["progress"] = *ug.Progress
	}
	if ug.Status != nil {
		set["status"] = *ug.Status
	}

	// matched rather than modified: repeating an update is not a miss
	res, err := repo.coll.UpdateOne(ctx, ownerFilter(owner, oid), bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "updating goal")
	}
	if res.MatchedCount == 0 {
		return goal.ErrNotFound
	}
	return nil
}

func (repo *goalRepository) DeleteGoal(ctx context.Context, owner, id string) error {
	return deleteOwned(ctx, repo.coll, owner, id, goal.ErrNotFound)
}
