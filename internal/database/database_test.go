package database

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: 15 * time.Minute,
	}

	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestConfigurePool_Defaults(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, configurePool(db, &config.Config{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: config.DriverPostgres, DBHost: "localhost"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: config.DriverMongo})
	assert.Error(t, err)
}

func TestConnect_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		DBDriver:      config.DriverSQLite,
		SQLitePath:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBAutoMigrate: true,
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, m := range PersistentModels() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
	assert.NoError(t, Ping(context.Background(), db))
}

func TestGormLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String(), "fast successful queries are not logged at warn level")

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is ignored")

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT slow", 1 }, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	verbose := l.LogMode(logger.Info)
	verbose.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 2", 1 }, nil)
	assert.Contains(t, buf.String(), "SELECT 2")

	buf.Reset()
	l.LogMode(logger.Silent).Error(context.Background(), "boom")
	assert.Empty(t, buf.String())
}

func TestReset(t *testing.T) {
	cfg := &config.Config{
		DBDriver:       config.DriverSQLite,
		SQLitePath:     "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		DBAutoMigrate:  true,
		DBMaxOpenConns: 1,
	}
	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	user := &models.User{Name: "A", Email: "a@example.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{Title: "T", Content: "C", AuthorID: user.ID}
	require.NoError(t, db.Omit("Author").Create(post).Error)
	require.NoError(t, db.Omit("Author").Create(&models.Comment{Content: "c", PostID: post.ID, AuthorID: user.ID}).Error)

	require.NoError(t, Reset(context.Background(), db))

	for _, m := range PersistentModels() {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T rows left", m)
	}
}
