package repository

import (
	"context"
	"errors"

	"quill/internal/database"

	"gorm.io/gorm"
)

// Backend labels used in metrics and health output.
const (
	BackendGorm  = "gorm"
	BackendMongo = "mongo"
)

// Store bundles the repositories of one storage backend.
type Store struct {
	Backend  string
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository

	ping  func(ctx context.Context) error
	close func() error
	reset func(ctx context.Context) error
}

// NewStore assembles a Store from backend-specific parts. ping and close may be nil.
func NewStore(
	backend string,
	users UserRepository,
	posts PostRepository,
	comments CommentRepository,
	ping func(ctx context.Context) error,
	closeFn func() error,
) *Store {
	return &Store{
		Backend:  backend,
		Users:    users,
		Posts:    posts,
		Comments: comments,
		ping:     ping,
		close:    closeFn,
	}
}

// NewGormStore returns a Store backed by a relational database.
func NewGormStore(db *gorm.DB) *Store {
	return NewStore(
		BackendGorm,
		NewUserRepository(db),
		NewPostRepository(db),
		NewCommentRepository(db),
		func(ctx context.Context) error { return database.Ping(ctx, db) },
		func() error { return database.Close(db) },
	).WithReset(func(ctx context.Context) error { return database.Reset(ctx, db) })
}

// WithReset sets the function that empties every collection of the store.
func (s *Store) WithReset(fn func(ctx context.Context) error) *Store {
	s.reset = fn
	return s
}

// Ping checks the backing store connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing store.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// ErrResetUnsupported is returned by Reset when the backend cannot be emptied.
var ErrResetUnsupported = errors.New("store does not support reset")

// Reset deletes all comments, posts and users.
func (s *Store) Reset(ctx context.Context) error {
	if s.reset == nil {
		return ErrResetUnsupported
	}
	return s.reset(ctx)
}
