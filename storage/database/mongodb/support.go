package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

type queryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail   string             `bson:"userEmail"`
	Subject     string             `bson:"subject"`
	Message     string             `bson:"message"`
	Reply       string             `bson:"reply,omitempty"`
	Status      string             `bson:"status"`
	IsFromAdmin bool               `bson:"isFromAdmin"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type supportRepository struct {
	coll *mongo.Collection
}

var _ support.Repository = (*supportRepository)(nil) // interface compliance check

func NewSupportRepository(db *mongo.Database) *supportRepository {
	return &supportRepository{coll: db.Collection(database.SupportCollection)}
}

func (repo *supportRepository) boil(q support.Query) queryDoc {
	d := queryDoc{
		UserEmail:   q.UserEmail,
		Subject:     q.Subject,
		Message:     q.Message,
		Reply:       q.Reply,
		Status:      q.Status,
		IsFromAdmin: q.IsFromAdmin,
		CreatedAt:   q.CreatedAt.UTC(),
		UpdatedAt:   q.UpdatedAt.UTC(),
	}
	if oid, ok := objectID(q.ID); ok {
		d.ID = oid
	}
	return d
}

func (repo *supportRepository) unboil(d queryDoc) support.Query {
	return support.Query{
		ID:          hexID(d.ID),
		UserEmail:   d.UserEmail,
		Subject:     d.Subject,
		Message:     d.Message,
		Reply:       d.Reply,
		Status:      d.Status,
		IsFromAdmin: d.IsFromAdmin,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (repo *supportRepository) CreateQuery(ctx context.Context, q support.Query) (support.Query, error) {
	d := repo.boil(q)
	d.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, d); err != nil {
		return support.Query{}, errors.Wrap(err, "inserting support query")
	}
	return repo.unboil(d), nil
}

func (repo *supportRepository) QueryThreads(ctx context.Context, owner string) ([]support.Query, error) {
	filter := bson.M{}
	if owner != "" {
		filter["userEmail"] = owner
	}
	opts := sortBy(core.NewestFirst...)
	return findAll(ctx, repo.coll, filter, repo.unboil, opts)
}

func (repo *supportRepository) GetQuery(ctx context.Context, id string) (support.Query, error) {
	var d queryDoc
	if err := findOwned(ctx, repo.coll, "", id, &d, support.ErrNotFound); err != nil {
		return support.Query{}, err
	}
	return repo.unboil(d), nil
}

func (repo *supportRepository) UpdateQuery(ctx context.Context, q support.Query) error {
	d := repo.boil(q)
	if d.ID.IsZero() {
		return support.ErrNotFound
	}
	return replaceOwned(ctx, repo.coll, "", d.ID, d, support.ErrNotFound)
}
