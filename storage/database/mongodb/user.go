package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/storage/database"
)

type userDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	Username          string             `bson:"username"`
	Role              string             `bson:"role"`
	Institution       string             `bson:"institution,omitempty"`
	Image             string             `bson:"image"`
	StudyHoursPerWeek float64            `bson:"studyHoursPerWeek"`
	DailyStudyHours   map[string]float64 `bson:"dailyStudyHours,omitempty"`
	Password          []byte             `bson:"password"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

type userRepository struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{coll: db.Collection(database.UsersCollection)}
}

func (repo *userRepository) boil(usr user.User) userDoc {
	d := userDoc{
		Email:             usr.Email,
		Username:          usr.Username,
		Role:              usr.Role,
		Institution:       usr.Institution,
		Image:             usr.Image,
		StudyHoursPerWeek: usr.StudyHoursPerWeek,
		DailyStudyHours:   usr.DailyStudyHours,
		Password:          usr.PasswordHash,
		CreatedAt:         usr.CreatedAt.UTC(),
		UpdatedAt:         usr.UpdatedAt.UTC(),
	}
	if oid, ok := objectID(usr.ID); ok {
		d.ID = oid
	}
	return d
}

func (repo *userRepository) unboil(d userDoc) user.User {
	return user.User{
		ID:                hexID(d.ID),
		Email:             d.Email,
		Username:          d.Username,
		Role:              d.Role,
		Institution:       d.Institution,
		Image:             d.Image,
		StudyHoursPerWeek: d.StudyHoursPerWeek,
		DailyStudyHours:   d.DailyStudyHours,
		PasswordHash:      d.Password,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	d := repo.boil(usr)
	d.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.unboil(d), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var d userDoc
	if err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d); err != nil {
		return user.User{}, trapNoDocsErr(err, user.ErrNotFound, "finding user by email")
	}
	return repo.unboil(d), nil
}

func (repo *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := repo.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "checking email")
	}
	return n > 0, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	q := bson.M{}
	if filter.Role != "" {
		q["role"] = filter.Role
	}
	opts := sortBy(core.DBOrdering{Field: "createdAt"})
	return findAll(ctx, repo.coll, q, repo.unboil, opts)
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	d := repo.boil(usr)
	set := bson.M{
		"username":          d.Username,
		"role":              d.Role,
		"institution":       d.Institution,
		"image":             d.Image,
		"studyHoursPerWeek": d.StudyHoursPerWeek,
		"dailyStudyHours":   d.DailyStudyHours,
		"password":          d.Password,
		"updatedAt":         d.UpdatedAt,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated userDoc
	err := repo.coll.FindOneAndUpdate(ctx, bson.M{"email": usr.Email}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return user.User{}, trapNoDocsErr(err, user.ErrNotFound, "updating user")
	}
	return repo.unboil(updated), nil
}
