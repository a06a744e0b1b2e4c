package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/session"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

// sessionDoc expires through the TTL index on createdAt.
type sessionDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Token     string             `bson:"token"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type sessionRepository struct {
	coll *mongo.Collection
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *mongo.Database) *sessionRepository {
	return &sessionRepository{coll: db.Collection(database.SessionsCollection)}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, s session.Session) error {
	d := sessionDoc{ID: primitive.NewObjectID(), Email: s.Email, Token: s.Token, CreatedAt: s.CreatedAt.UTC()}
	_, err := repo.coll.InsertOne(ctx, d)
	return errors.Wrap(err, "inserting session")
}

func (repo *sessionRepository) GetSession(ctx context.Context, email, token string) (session.Session, error) {
	var d sessionDoc
	if err := repo.coll.FindOne(ctx, bson.M{"email": email, "token": token}).Decode(&d); err != nil {
		return session.Session{}, trapNoDocsErr(err, session.ErrNotFound, "finding session")
	}
	return session.Session{ID: hexID(d.ID), Email: d.Email, Token: d.Token, CreatedAt: d.CreatedAt.UTC()}, nil
}

func (repo *sessionRepository) DeleteSession(ctx context.Context, email, token string) (int, error) {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"email": email, "token": token})
	if err != nil {
		return 0, errors.Wrap(err, "deleting session")
	}
	return int(res.DeletedCount), nil
}
