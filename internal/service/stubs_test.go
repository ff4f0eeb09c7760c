package service

import (
	"context"
	"errors"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn     func(context.Context, *models.User) error
	getByIDFn    func(context.Context, string) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) UpdateRole(context.Context, string, models.Role) error { return nil }

func usersWith(users ...*models.User) *userRepoStub {
	byID := map[string]*models.User{}
	byEmail := map[string]*models.User{}
	for _, u := range users {
		byID[u.ID] = u
		byEmail[u.Email] = u
	}
	return &userRepoStub{
		createFn: func(_ context.Context, u *models.User) error {
			if _, ok := byEmail[u.Email]; ok {
				return models.NewDuplicateEmailError()
			}
			u.ID = "generated-id"
			byEmail[u.Email] = u
			return nil
		},
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			if u, ok := byID[id]; ok {
				return u, nil
			}
			return nil, models.NewNotFoundError("User", id)
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if u, ok := byEmail[email]; ok {
				return u, nil
			}
			return nil, models.NewNotFoundError("User", email)
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, string) (*models.Post, error)
	listPublishedFn func(context.Context, int, int) ([]*models.Post, int64, error)
	listByAuthorFn  func(context.Context, string, int, int) ([]*models.Post, int64, error)
	countByAuthorFn func(context.Context, string) (int64, error)
	updateFn        func(context.Context, *models.Post, models.Identity) error
	deleteFn        func(context.Context, string, models.Identity) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListPublished(ctx context.Context, skip, limit int) ([]*models.Post, int64, error) {
	return s.listPublishedFn(ctx, skip, limit)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID string, skip, limit int) ([]*models.Post, int64, error) {
	return s.listByAuthorFn(ctx, authorID, skip, limit)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post, requester models.Identity) error {
	return s.updateFn(ctx, p, requester)
}
func (s *postRepoStub) Delete(ctx context.Context, id string, requester models.Identity) (int64, error) {
	return s.deleteFn(ctx, id, requester)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		},
		listPublishedFn: func(context.Context, int, int) ([]*models.Post, int64, error) { return nil, 0, nil },
		listByAuthorFn:  func(context.Context, string, int, int) ([]*models.Post, int64, error) { return nil, 0, nil },
		countByAuthorFn: func(context.Context, string) (int64, error) { return 0, nil },
		updateFn:        func(context.Context, *models.Post, models.Identity) error { return nil },
		deleteFn:        func(context.Context, string, models.Identity) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, string) (*models.Comment, error)
	listByPostFn   func(context.Context, string) ([]*models.Comment, error)
	deleteFn       func(context.Context, string, models.Identity) error
	countByPostsFn func(context.Context, []string) (map[string]int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string, requester models.Identity) error {
	return s.deleteFn(ctx, id, requester)
}
func (s *commentRepoStub) CountByPosts(ctx context.Context, ids []string) (map[string]int64, error) {
	return s.countByPostsFn(ctx, ids)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id string) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		},
		listByPostFn:   func(context.Context, string) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		deleteFn:       func(context.Context, string, models.Identity) error { return nil },
		countByPostsFn: func(context.Context, []string) (map[string]int64, error) { return map[string]int64{}, nil },
	}
}

// tokenStub issues "token-<userID>".
type tokenStub struct{ err error }

func (s tokenStub) Issue(id models.Identity) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + id.UserID, nil
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
