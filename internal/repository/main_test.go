package repository

import (
	"context"
	"testing"
	"time"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// setupSQLite returns a migrated, isolated in-memory database.
func setupSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: "User " + email, Email: email, Password: "hash", Role: role}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, title string, published bool, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:       title,
		Content:     "content of " + title,
		AuthorID:    author.ID,
		IsPublished: published,
		CreatedAt:   at,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), p))
	return p
}

func seedComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, content string, at time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{Content: content, PostID: post.ID, AuthorID: author.ID, CreatedAt: at}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), c))
	return c
}
