package repository

import (
	"context"

	"quill/internal/models"
	"quill/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListPublished(ctx context.Context, skip, limit int) ([]*models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string, skip, limit int) ([]*models.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	// Update writes title, content, tags and isPublished only when the
	// requester owns the post or is an admin.
	Update(ctx context.Context, post *models.Post, requester models.Identity) error
	// Delete removes the post and its comments in one transaction and
	// returns the number of comments removed.
	Delete(ctx context.Context, id string, requester models.Identity) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// ownedBy restricts a mutation to rows the requester may change.
func ownedBy(requester models.Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if requester.IsAdmin() {
			return db
		}
		return db.Where("author_id = ?", requester.UserID)
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery(BackendGorm, "posts.create")()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery(BackendGorm, "posts.get_by_id")()
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) ListPublished(ctx context.Context, skip, limit int) ([]*models.Post, int64, error) {
	defer observability.TrackQuery(BackendGorm, "posts.list_published")()
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_published = ?", true)
	}, skip, limit)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, skip, limit int) ([]*models.Post, int64, error) {
	defer observability.TrackQuery(BackendGorm, "posts.list_by_author")()
	return r.page(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ?", authorID)
	}, skip, limit)
}

func (r *postRepository) page(ctx context.Context, filter func(*gorm.DB) *gorm.DB, skip, limit int) ([]*models.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	posts := make([]*models.Post, 0, limit)
	if total == 0 {
		return posts, 0, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Preload("Author").
		Order("created_at DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, requester models.Identity) error {
	defer observability.TrackQuery(BackendGorm, "posts.update")()
	post.UpdatedAt = r.db.NowFunc()
	res := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Scopes(ownedBy(requester)).
		Select("title", "content", "tags", "is_published", "updated_at").
		Updates(post)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string, requester models.Identity) (int64, error) {
	defer observability.TrackQuery(BackendGorm, "posts.delete")()
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		removed = res.RowsAffected

		res = tx.Scopes(ownedBy(requester)).Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			// Rolls back the comment deletion too.
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
