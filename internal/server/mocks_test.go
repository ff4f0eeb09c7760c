package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListPublished(ctx context.Context, skip, limit int) ([]*models.Post, int64, error) {
	args := m.Called(ctx, skip, limit)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) ListByAuthor(ctx context.Context, authorID string, skip, limit int) ([]*models.Post, int64, error) {
	args := m.Called(ctx, authorID, skip, limit)
	posts, _ := args.Get(0).([]*models.Post)
	return posts, args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post, requester models.Identity) error {
	return m.Called(ctx, post, requester).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string, requester models.Identity) (int64, error) {
	args := m.Called(ctx, id, requester)
	return args.Get(0).(int64), args.Error(1)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string, requester models.Identity) error {
	return m.Called(ctx, id, requester).Error(0)
}

func (m *MockCommentRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	args := m.Called(ctx, postIDs)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

type mockStore struct {
	users    *MockUserRepository
	posts    *MockPostRepository
	comments *MockCommentRepository
	pingErr  error
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		Port:           "0",
		AllowedOrigins: "http://localhost:3000",
		RequestTimeout: 5 * time.Second,
	}
}

func testTokens(t *testing.T) *auth.TokenManager {
	t.Helper()
	tokens, err := auth.NewTokenManager(testSecret, time.Hour, "quill-api", "quill-clients")
	require.NoError(t, err)
	return tokens
}

// newMockServer builds a server over testify mocks.
func newMockServer(t *testing.T) (*fiber.App, *mockStore, *auth.TokenManager) {
	t.Helper()
	ms := &mockStore{
		users:    new(MockUserRepository),
		posts:    new(MockPostRepository),
		comments: new(MockCommentRepository),
	}
	store := repository.NewStore("mock", ms.users, ms.posts, ms.comments,
		func(context.Context) error { return ms.pingErr }, nil)
	tokens := testTokens(t)
	return NewServer(testConfig(), store, tokens).App(), ms, tokens
}

func bearer(t *testing.T, tokens *auth.TokenManager, id models.Identity) string {
	t.Helper()
	token, err := tokens.Issue(id)
	require.NoError(t, err)
	return token
}

// doRequest sends a JSON request and returns the status and the raw body.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// bcrypt at cost 12 can exceed the default one second test timeout.
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

