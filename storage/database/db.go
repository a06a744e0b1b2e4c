package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// Collection names
const (
	UsersCollection    = "users"
	SessionsCollection = "sessions"
	OTPsCollection     = "otps"
	GoalsCollection    = "goals"
	ScheduleCollection = "schedule"
	StudyLogCollection = "studyLogs"
	FeedbackCollection = "feedback"
	SupportCollection  = "support"
)

// Open connects to the document store and waits until it answers.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, *mongo.Database, error) {
	connCtx, cancel := context.WithTimeout(ctx, conf.Database.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName).
		SetConnectTimeout(conf.Database.ConnectTimeout)
	client, err := mongo.Connect(connCtx, opts)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to database")
	}
	if err = ping(connCtx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(conf.Database.Name), nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx, readpref.Primary()); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(err, "DB ping timeout")
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
	return errors.Wrap(err, "DB ping timeout")
}

// Index describes one index to create on a collection.
type Index struct {
	Collection string
	Model      mongo.IndexModel
}

// Indexes returns the indexes the application relies on: the unique emails, the TTL sweeps
// of sessions and verification codes, and the owner lookups of every resource.
func Indexes(conf *core.Config) []Index {
	ownerIdx := func(coll string, sortKey string, order int) Index {
		return Index{coll, mongo.IndexModel{Keys: bson.D{{Key: "userEmail", Value: 1}, {Key: sortKey, Value: order}}}}
	}
	return []Index{
		{UsersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		}},
		{SessionsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(conf.Server.SessionExpiry.Seconds())).SetName("createdAt_ttl"),
		}},
		{SessionsCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}, {Key: "token", Value: 1}}}},
		{OTPsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		}},
		{OTPsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(conf.OTP.TTL.Seconds())).SetName("createdAt_ttl"),
		}},
		ownerIdx(GoalsCollection, "createdAt", -1),
		ownerIdx(ScheduleCollection, "date", 1),
		ownerIdx(StudyLogCollection, "date", -1),
		ownerIdx(FeedbackCollection, "createdAt", -1),
		ownerIdx(SupportCollection, "createdAt", -1),
	}
}

// Migrate creates the missing indexes. Existing ones are left untouched.
func Migrate(ctx context.Context, db *mongo.Database, conf *core.Config) error {
	for _, idx := range Indexes(conf) {
		if _, err := db.Collection(idx.Collection).Indexes().CreateOne(ctx, idx.Model); err != nil {
			return errors.Wrapf(err, "creating index on %s", idx.Collection)
		}
	}
	return nil
}
