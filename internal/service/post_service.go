package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/observability"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

type CreatePostInput struct {
	Title       string   `json:"title" validate:"required,max=100"`
	Content     string   `json:"content" validate:"required,max=5000"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
}

// UpdatePostInput holds the fields to merge into a stored post. Nil, empty
// or whitespace-only values leave the stored value untouched.
type UpdatePostInput struct {
	Title       *string  `json:"title" validate:"omitempty,max=100"`
	Content     *string  `json:"content" validate:"omitempty,max=5000"`
	Tags        []string `json:"tags"`
	IsPublished *bool    `json:"isPublished"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, id models.Identity, in CreatePostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if strings.TrimSpace(in.Content) == "" {
		in.Content = ""
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		Content:     in.Content,
		AuthorID:    author.ID,
		Tags:        validation.NormalizeTags(in.Tags),
		IsPublished: true,
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	post.Author = author
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// ListPublished returns one page of published posts, newest first, each
// carrying its comment count.
func (s *PostService) ListPublished(ctx context.Context, p pagination.Params) ([]*models.Post, pagination.Meta, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.ListPublished",
		attribute.Int("page", p.Page), attribute.Int("limit", p.Limit))
	defer span.End()

	posts, total, err := s.postRepo.ListPublished(ctx, p.Skip(), p.Limit)
	if err != nil {
		span.SetError(err)
		return nil, pagination.Meta{}, err
	}
	if err := s.attachCommentCounts(ctx, posts); err != nil {
		span.SetError(err)
		return nil, pagination.Meta{}, err
	}
	span.AddAttributes(attribute.Int64("total", total))
	return posts, pagination.NewMeta(p, total), nil
}

func (s *PostService) attachCommentCounts(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := s.commentRepo.CountByPosts(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		n := counts[p.ID]
		p.CommentCount = &n
	}
	return nil
}

// ListMine returns every post of the caller, drafts included.
func (s *PostService) ListMine(ctx context.Context, id models.Identity, p pagination.Params) ([]*models.Post, pagination.Meta, error) {
	posts, total, err := s.postRepo.ListByAuthor(ctx, id.UserID, p.Skip(), p.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return posts, pagination.NewMeta(p, total), nil
}

func (s *PostService) UpdatePost(ctx context.Context, id models.Identity, postID string, in UpdatePostInput) (*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !CanMutate(post.AuthorID, id.UserID, id.Role) {
		return nil, models.NewForbiddenError("Not authorized to update this post")
	}

	if in.Title != nil {
		if title := strings.TrimSpace(*in.Title); title != "" {
			post.Title = title
		}
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) != "" {
		post.Content = *in.Content
	}
	if in.Tags != nil {
		post.Tags = validation.NormalizeTags(in.Tags)
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}

	if err := s.postRepo.Update(ctx, post, id); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id models.Identity, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !CanMutate(post.AuthorID, id.UserID, id.Role) {
		return models.NewForbiddenError("Not authorized to delete this post")
	}

	removed, err := s.postRepo.Delete(ctx, postID, id)
	if err != nil {
		return err
	}
	observability.CascadeDeletedComments.Add(float64(removed))
	return nil
}
