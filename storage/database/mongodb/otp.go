package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/otp"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

// otpDoc expires through the TTL index on createdAt.
type otpDoc struct {
	Email     string    `bson:"email"`
	Code      string    `bson:"otp"`
	Purpose   string    `bson:"purpose"`
	Attempts  int       `bson:"attempts"`
	CreatedAt time.Time `bson:"createdAt"`
}

type otpRepository struct {
	coll *mongo.Collection
}

var _ otp.Repository = (*otpRepository)(nil) // interface compliance check

func NewOTPRepository(db *mongo.Database) *otpRepository {
	return &otpRepository{coll: db.Collection(database.OTPsCollection)}
}

func (repo *otpRepository) UpsertCode(ctx context.Context, rec otp.Record) error {
	d := otpDoc{Email: rec.Email, Code: rec.Code, Purpose: rec.Purpose, Attempts: rec.Attempts, CreatedAt: rec.CreatedAt.UTC()}
	_, err := repo.coll.UpdateOne(ctx, bson.M{"email": rec.Email}, bson.M{"$set": d}, options.Update().SetUpsert(true))
	return errors.Wrap(err, "upserting otp")
}

func (repo *otpRepository) GetCode(ctx context.Context, email string) (otp.Record, error) {
	var d otpDoc
	if err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return otp.Record{}, trapNoDocsErr(err, otp.ErrNotFound, "finding otp")
	}
	return otp.Record{Email: d.Email, Code: d.Code, Purpose: d.Purpose, Attempts: d.Attempts, CreatedAt: d.CreatedAt.UTC()}, nil
}

func (repo *otpRepository) DeleteCode(ctx context.Context, email string) error {
	_, err := repo.coll.DeleteOne(ctx, bson.M{"email": email})
	return errors.Wrap(err, "deleting otp")
}

func (repo *otpRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	var d otpDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$inc": bson.M{"attempts": 1}}, opts).Decode(&d)
	if err != nil {
		return 0, trapNoDocsErr(err, otp.ErrNotFound, "counting otp attempt")
	}
	return d.Attempts, nil
}
