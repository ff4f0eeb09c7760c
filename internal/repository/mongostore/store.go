// Package mongostore implements the repository interfaces on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"time"

	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// New returns a repository.Store backed by db. Closing the store
// disconnects client.
func New(client *mongo.Client, db *mongo.Database) *repository.Store {
	return repository.NewStore(
		repository.BackendMongo,
		NewUserRepository(db),
		NewPostRepository(db),
		NewCommentRepository(db),
		func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		func() error { return database.DisconnectMongo(client) },
	).WithReset(func(ctx context.Context) error { return reset(ctx, db) })
}

func reset(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{database.CommentsCollection, database.PostsCollection, database.UsersCollection} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return err
		}
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// now truncates to milliseconds, the resolution of BSON dates.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// ownedBy adds the author guard unless the requester is an admin.
func ownedBy(filter bson.M, requester models.Identity) bson.M {
	if !requester.IsAdmin() {
		filter["authorId"] = requester.UserID
	}
	return filter
}

// authorStages joins the author document and strips its password hash.
func authorStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: database.UsersCollection},
			{Key: "localField", Value: "authorId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "author.password", Value: 0}}}},
	}
}
