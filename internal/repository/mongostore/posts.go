package mongostore

import (
	"context"

	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type postRepository struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

// NewPostRepository returns a repository.PostRepository on the posts collection.
func NewPostRepository(db *mongo.Database) repository.PostRepository {
	return &postRepository{
		posts:    db.Collection(database.PostsCollection),
		comments: db.Collection(database.CommentsCollection),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery(repository.BackendMongo, "posts.create")()
	if post.ID == "" {
		post.ID = newID()
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now()
	}
	post.UpdatedAt = post.CreatedAt

	doc := *post
	doc.Author = nil
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery(repository.BackendMongo, "posts.get_by_id")()
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
	}, authorStages()...)

	posts, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundError("Post", id)
	}
	return posts[0], nil
}

func (r *postRepository) ListPublished(ctx context.Context, skip, limit int) ([]*models.Post, int64, error) {
	defer observability.TrackQuery(repository.BackendMongo, "posts.list_published")()
	return r.page(ctx, bson.M{"isPublished": true}, skip, limit)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, skip, limit int) ([]*models.Post, int64, error) {
	defer observability.TrackQuery(repository.BackendMongo, "posts.list_by_author")()
	return r.page(ctx, bson.M{"authorId": authorID}, skip, limit)
}

func (r *postRepository) page(ctx context.Context, filter bson.M, skip, limit int) ([]*models.Post, int64, error) {
	total, err := r.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if total == 0 {
		return []*models.Post{}, 0, nil
	}

	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: int64(skip)}},
		{{Key: "$limit", Value: int64(limit)}},
	}, authorStages()...)

	posts, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]*models.Post, error) {
	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	count, err := r.posts.CountDocuments(ctx, bson.M{"authorId": authorID})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, requester models.Identity) error {
	defer observability.TrackQuery(repository.BackendMongo, "posts.update")()
	post.UpdatedAt = now()
	res, err := r.posts.UpdateOne(ctx,
		ownedBy(bson.M{"_id": post.ID}, requester),
		bson.M{"$set": bson.M{
			"title":       post.Title,
			"content":     post.Content,
			"tags":        post.Tags,
			"isPublished": post.IsPublished,
			"updatedAt":   post.UpdatedAt,
		}},
	)
	if err != nil {
		return models.NewInternalError(err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

// Delete removes the post first so a failed guard never touches comments.
// Standalone servers have no multi-document transactions; a failure after
// the post is gone leaves comments that no listing can reach.
func (r *postRepository) Delete(ctx context.Context, id string, requester models.Identity) (int64, error) {
	defer observability.TrackQuery(repository.BackendMongo, "posts.delete")()
	res, err := r.posts.DeleteOne(ctx, ownedBy(bson.M{"_id": id}, requester))
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	if res.DeletedCount == 0 {
		return 0, models.NewNotFoundError("Post", id)
	}

	removed, err := r.comments.DeleteMany(ctx, bson.M{"postId": id})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return removed.DeletedCount, nil
}
