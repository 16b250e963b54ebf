package repository

import (
	"context"
	"testing"

	"scribe/internal/models"
	"scribe/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	alice := seedAccount(t, db, "alice")

	newSession := func(hash string) *models.Session {
		return &models.Session{ID: uuid.NewString(), AccountID: alice.ID, TokenHash: hash}
	}

	require.NoError(t, repo.Create(ctx, newSession("hash-a")))
	require.NoError(t, repo.Create(ctx, newSession("hash-b")))

	t.Run("lookup", func(t *testing.T) {
		got, err := repo.GetByTokenHash(ctx, "hash-a")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.AccountID)

		got, err = repo.GetByTokenHash(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete by token is idempotent", func(t *testing.T) {
		n, err := repo.DeleteByTokenHash(ctx, "hash-a")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.DeleteByTokenHash(ctx, "hash-a")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete by account", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, newSession("hash-c")))
		n, err := repo.DeleteByAccount(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, err := repo.GetByTokenHash(ctx, "hash-b")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("unknown account", func(t *testing.T) {
		err := repo.Create(ctx, &models.Session{ID: uuid.NewString(), AccountID: 999, TokenHash: "hash-z"})
		assert.True(t, models.HasCode(err, models.CodeValidation), "got %v", err)
	})
}
