package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
)

// objectID parses a hex id. ok is false for malformed ids, which can never match a document.
func objectID(id string) (oid primitive.ObjectID, ok bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func hexID(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// ownerFilter matches id, and userEmail unless owner is empty.
func ownerFilter(owner string, oid primitive.ObjectID) bson.M {
	filter := bson.M{"_id": oid}
	if owner != "" {
		filter["userEmail"] = owner
	}
	return filter
}

// findAll decodes every document of the cursor, mapping each with conv.
func findAll[D any, T any](ctx context.Context, coll *mongo.Collection, filter interface{}, conv func(D) T, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "querying "+coll.Name())
	}
	var docs []D
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding "+coll.Name())
	}
	rows := make([]T, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, conv(d))
	}
	return rows, nil
}

// trapNoDocsErr maps mongo's "no documents" err to notFound.
func trapNoDocsErr(err, notFound error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// deleteOwned deletes the document id of owner, failing with notFound when none matched.
func deleteOwned(ctx context.Context, coll *mongo.Collection, owner, id string, notFound error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}
	res, err := coll.DeleteOne(ctx, ownerFilter(owner, oid))
	if err != nil {
		return errors.Wrap(err, "deleting from "+coll.Name())
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// replaceOwned replaces the document id of owner, failing with notFound when none matched.
func replaceOwned(ctx context.Context, coll *mongo.Collection, owner string, oid primitive.ObjectID, doc interface{}, notFound error) error {
	res, err := coll.ReplaceOne(ctx, ownerFilter(owner, oid), doc)
	if err != nil {
		return errors.Wrap(err, "updating "+coll.Name())
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

// findOwned decodes the document id of owner into doc, failing with notFound when none matched.
func findOwned(ctx context.Context, coll *mongo.Collection, owner, id string, doc interface{}, notFound error) error {
	oid, ok := objectID(id)
	if !ok {
		return notFound
	}
	if err := coll.FindOne(ctx, ownerFilter(owner, oid)).Decode(doc); err != nil {
		return trapNoDocsErr(err, notFound, "finding in "+coll.Name())
	}
	return nil
}

// sortBy builds the find options ordering documents by ords.
func sortBy(ords ...core.DBOrdering) *options.FindOptions {
	sort := make(bson.D, 0, len(ords))
	for _, ord := range ords {
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: ord.Field, Value: dir})
	}
	return options.Find().SetSort(sort)
}
