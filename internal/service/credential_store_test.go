package service

import (
	"context"
	"strings"
	"testing"

	"scribe/internal/models"
	"scribe/internal/repository"
	"scribe/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errMismatch = bcrypt.ErrMismatchedHashAndPassword

func TestCredentialStore_Register_Validation(t *testing.T) {
	t.Parallel()

	store := NewCredentialStore(noopAccountRepo(), &plainHasher{})
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		secret   string
	}{
		{"empty username", "", "secret"},
		{"short username", "abcd", "secret"},
		{"long username", strings.Repeat("a", 21), "secret"},
		{"empty secret", "alice", ""},
		{"secret over bcrypt limit", "alice", strings.Repeat("s", 73)},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := store.Register(ctx, tc.username, tc.secret)
			assertValidationError(t, err)
		})
	}
}

func TestCredentialStore_Register_DuplicateIsCheckedFirst(t *testing.T) {
	t.Parallel()

	repo := noopAccountRepo()
	repo.getByUsernameFn = func(_ context.Context, name string) (*models.Account, error) {
		return &models.Account{ID: 3, Username: name}, nil
	}
	repo.createFn = func(_ context.Context, _ *models.Account) error {
		t.Fatal("create must not run for a taken username")
		return nil
	}
	store := NewCredentialStore(repo, &plainHasher{})

	_, err := store.Register(context.Background(), "alice", "secret")
	assertAppError(t, err, models.CodeDuplicateUsername)
}

func TestCredentialStore_Register_StoresHashNotSecret(t *testing.T) {
	t.Parallel()

	var stored *models.Account
	repo := noopAccountRepo()
	repo.createFn = func(_ context.Context, a *models.Account) error {
		a.ID = 11
		stored = a
		return nil
	}
	store := NewCredentialStore(repo, NewBcryptHasher(bcrypt.MinCost))

	account, err := store.Register(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(11), account.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func TestCredentialStore_Verify_UnknownUserStillCompares(t *testing.T) {
	t.Parallel()

	hasher := &plainHasher{}
	store := NewCredentialStore(noopAccountRepo(), hasher)

	_, err := store.Verify(context.Background(), "nobody", "secret")
	assertAppError(t, err, models.CodeInvalidCredentials)
	assert.Len(t, hasher.compared, 1, "a hash comparison should run for unknown usernames")
}

func TestCredentialStore_Verify_RequiresBothFields(t *testing.T) {
	t.Parallel()

	store := NewCredentialStore(noopAccountRepo(), &plainHasher{})
	_, err := store.Verify(context.Background(), "", "secret")
	assertValidationError(t, err)
	_, err = store.Verify(context.Background(), "alice", "")
	assertValidationError(t, err)
}

func TestCredentialStore_SQLite(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	store := NewCredentialStore(repository.NewAccountRepository(db), NewBcryptHasher(bcrypt.MinCost))
	ctx := context.Background()

	alice, err := store.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		found, err := store.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, alice.ID, found.ID)

		verified, err := store.Verify(ctx, "alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, verified.ID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := store.Verify(ctx, "alice", "wrong")
		assertAppError(t, err, models.CodeInvalidCredentials)
	})

	t.Run("duplicate keeps original secret", func(t *testing.T) {
		_, err := store.Register(ctx, "alice", "other-secret")
		assertAppError(t, err, models.CodeDuplicateUsername)

		_, err = store.Verify(ctx, "alice", "other-secret")
		assertAppError(t, err, models.CodeInvalidCredentials)
		_, err = store.Verify(ctx, "alice", "s3cret")
		assert.NoError(t, err)
	})

	t.Run("absent username", func(t *testing.T) {
		found, err := store.FindByUsername(ctx, "carol")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
