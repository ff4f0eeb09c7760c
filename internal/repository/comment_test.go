package repository

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CountByPosts_SingleQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS count FROM "comments" WHERE post_id IN \(\$1,\$2\) GROUP BY .*post_id`).
		WithArgs("p-1", "p-2").
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).AddRow("p-1", 3))

	counts, err := repo.CountByPosts(context.Background(), []string{"p-1", "p-2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"p-1": 3}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_CountByPosts_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	counts, err := repo.CountByPosts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Delete_GuardsOnAuthor(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments" WHERE .*author_id = `).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "c-1", owner)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost_OldestFirst(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	now := time.Now()

	alice := seedUser(t, db, "alice@example.com", models.RoleUser)
	bob := seedUser(t, db, "bob@example.com", models.RoleUser)
	post := seedPost(t, db, alice, "Thread", true, now)
	second := seedComment(t, db, post, alice, "second", now.Add(time.Minute))
	first := seedComment(t, db, post, bob, "first", now)

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, bob.Name, comments[0].Author.Name)

	none, err := repo.ListByPost(ctx, "no-such-post")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCommentRepository_CountAndDelete(t *testing.T) {
	db := setupSQLite(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	now := time.Now()

	alice := seedUser(t, db, "alice@example.com", models.RoleUser)
	bob := seedUser(t, db, "bob@example.com", models.RoleUser)
	busy := seedPost(t, db, alice, "Busy", true, now)
	quiet := seedPost(t, db, alice, "Quiet", true, now)
	c1 := seedComment(t, db, busy, bob, "one", now)
	seedComment(t, db, busy, alice, "two", now)

	counts, err := repo.CountByPosts(ctx, []string{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[busy.ID])
	assert.Zero(t, counts[quiet.ID])

	// Alice owns the post but not the comment.
	err = repo.Delete(ctx, c1.ID, models.Identity{UserID: alice.ID, Role: models.RoleUser})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	require.NoError(t, repo.Delete(ctx, c1.ID, models.Identity{UserID: bob.ID, Role: models.RoleUser}))
	_, err = repo.GetByID(ctx, c1.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
