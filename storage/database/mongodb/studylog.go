package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/studylog"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

type logDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail string             `bson:"userEmail"`
	Date      string             `bson:"date"`
	StartTime string             `bson:"startTime"`
	EndTime   string             `bson:"endTime"`
	Subject   string             `bson:"subject"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type studyLogRepository struct {
	coll *mongo.Collection
}

var _ studylog.Repository = (*studyLogRepository)(nil) // interface compliance check

func NewStudyLogRepository(db *mongo.Database) *studyLogRepository {
	return &studyLogRepository{coll: db.Collection(database.StudyLogCollection)}
}

func (repo *studyLogRepository) boil(l studylog.Log) logDoc {
	d := logDoc{
		UserEmail: l.UserEmail,
		Date:      l.Date,
		StartTime: l.StartTime,
		EndTime:   l.EndTime,
		Subject:   l.Subject,
		CreatedAt: l.CreatedAt.UTC(),
	}
	if oid, ok := objectID(l.ID); ok {
		d.ID = oid
	}
	return d
}

func (repo *studyLogRepository) unboil(d logDoc) studylog.Log {
	return studylog.Log{
		ID:        hexID(d.ID),
		UserEmail: d.UserEmail,
		Date:      d.Date,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Subject:   d.Subject,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (repo *studyLogRepository) CreateLog(ctx context.Context, l studylog.Log) (studylog.Log, error) {
	d := repo.boil(l)
	d.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, d); err != nil {
		return studylog.Log{}, errors.Wrap(err, "inserting study log")
	}
	return repo.unboil(d), nil
}

func (repo *studyLogRepository) QueryLogs(ctx context.Context, owner string) ([]studylog.Log, error) {
	opts := sortBy(core.DBOrdering{Field: "date"}, core.DBOrdering{Field: "startTime"}, core.DBOrdering{Field: "_id"})
	return findAll(ctx, repo.coll, bson.M{"userEmail": owner}, repo.unboil, opts)
}

func (repo *studyLogRepository) GetLog(ctx context.Context, owner, id string) (studylog.Log, error) {
	var d logDoc
	if err := findOwned(ctx, repo.coll, owner, id, &d, studylog.ErrNotFound); err != nil {
		return studylog.Log{}, err
	}
	return repo.unboil(d), nil
}

func (repo *studyLogRepository) UpdateLog(ctx context.Context, l studylog.Log) error {
	d := repo.boil(l)
	if d.ID.IsZero() {
		return studylog.ErrNotFound
	}
	return replaceOwned(ctx, repo.coll, l.UserEmail, d.ID, d, studylog.ErrNotFound)
}

func (repo *studyLogRepository) DeleteLog(ctx context.Context, owner, id string) error {
	return deleteOwned(ctx, repo.coll, owner, id, studylog.ErrNotFound)
}
