package seed

import (
	"context"
	"testing"

	"quill/internal/database"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	store := repository.NewGormStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestDefaultFixtures(t *testing.T) {
	f, err := DefaultFixtures()
	require.NoError(t, err)

	assert.Len(t, f.Users, 4)
	assert.Equal(t, "john@example.com", f.Users[0].Email)
	assert.Equal(t, models.RoleAdmin, f.Users[0].Role)
	for _, u := range f.Users[1:] {
		assert.Equal(t, models.RoleUser, u.Role, u.Email)
	}
	assert.Len(t, f.Posts, 4)
	assert.Len(t, f.Comments, 7)
	for _, p := range f.Posts {
		assert.LessOrEqual(t, len(p.Title), 100)
		assert.LessOrEqual(t, len(p.Content), 5000)
	}
}

func TestParseFixtures_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "users: [unclosed"},
		{"no users", "password: x\nusers: []"},
		{"no password", "users:\n  - {name: A, email: a@example.com}"},
		{"bad role", "password: x\nusers:\n  - {name: A, email: a@example.com, role: root}"},
		{"comment post out of range", "password: x\nusers:\n  - {name: A, email: a@example.com}\ncomments:\n  - {content: hi, post: 0, author: 0}"},
		{"comment author out of range", "password: x\nusers:\n  - {name: A, email: a@example.com}\nposts:\n  - {title: T, content: C}\ncomments:\n  - {content: hi, post: 0, author: 3}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixtures([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseFixtures_DefaultsRole(t *testing.T) {
	f, err := ParseFixtures([]byte("password: x\nusers:\n  - {name: A, email: a@example.com}"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, f.Users[0].Role)
}

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	f, err := DefaultFixtures()
	require.NoError(t, err)

	sum, err := NewSeeder(store, nil).Run(ctx, f, Options{Reset: true, Fake: 3, FakeSeed: 42})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Users)
	assert.Equal(t, 7, sum.Posts)
	assert.GreaterOrEqual(t, sum.Comments, 7)

	john, err := store.Users.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, john.Role)

	// Fixture posts go round-robin, so john wrote exactly one of them.
	johnsPosts, _, err := store.Posts.ListByAuthor(ctx, john.ID, 0, 100)
	require.NoError(t, err)
	var fixtureTitles []string
	for _, p := range johnsPosts {
		if p.Title == "Getting Started with React" {
			fixtureTitles = append(fixtureTitles, p.Title)
			comments, err := store.Comments.ListByPost(ctx, p.ID)
			require.NoError(t, err)
			assert.Len(t, comments, 2)
		}
	}
	assert.Len(t, fixtureTitles, 1)
}

func TestSeeder_RerunReusesUsers(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	f, err := ParseFixtures([]byte(`
password: password123
users:
  - {name: Solo, email: Solo@Example.com}
posts:
  - {title: One, content: First body}
`))
	require.NoError(t, err)
	seeder := NewSeeder(store, nil)

	_, err = seeder.Run(ctx, f, Options{})
	require.NoError(t, err)
	sum, err := seeder.Run(ctx, f, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Users)
	assert.Equal(t, 1, sum.Posts)

	_, total, err := store.Posts.ListPublished(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	sum, err = seeder.Run(ctx, f, Options{Reset: true})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Users)
	_, total, err = store.Posts.ListPublished(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
