package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

type feedbackDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserEmail string             `bson:"userEmail"`
	Subject   string             `bson:"subject"`
	Category  string             `bson:"category"`
	Rating    int                `bson:"rating"`
	Message   string             `bson:"message"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

type feedbackRepository struct {
	coll *mongo.Collection
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *mongo.Database) *feedbackRepository {
	return &feedbackRepository{coll: db.Collection(database.FeedbackCollection)}
}

func (repo *feedbackRepository) boil(f feedback.Feedback) feedbackDoc {
	d := feedbackDoc{
		UserEmail: f.UserEmail,
		Subject:   f.Subject,
		Category:  f.Category,
		Rating:    int(f.Rating),
		Message:   f.Message,
		Status:    f.Status,
		CreatedAt: f.CreatedAt.UTC(),
		UpdatedAt: f.UpdatedAt.UTC(),
	}
	if oid, ok := objectID(f.ID); ok {
		d.ID = oid
	}
	return d
}

func (repo *feedbackRepository) unboil(d feedbackDoc) feedback.Feedback {
	return feedback.Feedback{
		ID:        hexID(d.ID),
		UserEmail: d.UserEmail,
		Subject:   d.Subject,
		Category:  d.Category,
		Rating:    feedback.Rating(d.Rating),
		Message:   d.Message,
		Status:    d.Status,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	d := repo.boil(f)
	d.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, d); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}
	return repo.unboil(d), nil
}

func (repo *feedbackRepository) QueryFeedback(ctx context.Context, owner string) ([]feedback.Feedback, error) {
	filter := bson.M{}
	if owner != "" {
		filter["userEmail"] = owner
	}
	opts := sortBy(core.NewestFirst...)
	return findAll(ctx, repo.coll, filter, repo.unboil, opts)
}

func (repo *feedbackRepository) GetFeedback(ctx context.Context, owner, id string) (feedback.Feedback, error) {
	var d feedbackDoc
	if err := findOwned(ctx, repo.coll, owner, id, &d, feedback.ErrNotFound); err != nil {
		return feedback.Feedback{}, err
	}
	return repo.unboil(d), nil
}

func (repo *feedbackRepository) UpdateFeedback(ctx context.Context, f feedback.Feedback) error {
	d := repo.boil(f)
	if d.ID.IsZero() {
		return feedback.ErrNotFound
	}
	return replaceOwned(ctx, repo.coll, "", d.ID, d, feedback.ErrNotFound)
}

func (repo *feedbackRepository) DeleteFeedback(ctx context.Context, owner, id string) error {
	return deleteOwned(ctx, repo.coll, owner, id, feedback.ErrNotFound)
}
