package service

import (
	"context"
	"errors"
	"testing"

	"scribe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listAllOrderedFn func(context.Context) ([]*models.Post, error)
	listByAccountFn  func(context.Context, uint) ([]*models.Post, error)
	updateFn         func(context.Context, uint, string, string) (*models.Post, error)
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListAllOrdered(ctx context.Context) ([]*models.Post, error) {
	return s.listAllOrderedFn(ctx)
}
func (s *postRepoStub) ListByAccount(ctx context.Context, accountID uint) ([]*models.Post, error) {
	return s.listByAccountFn(ctx, accountID)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, title, body string) (*models.Post, error) {
	return s.updateFn(ctx, id, title, body)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:         func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listAllOrderedFn: func(_ context.Context) ([]*models.Post, error) { return []*models.Post{}, nil },
		listByAccountFn:  func(_ context.Context, _ uint) ([]*models.Post, error) { return []*models.Post{}, nil },
		updateFn: func(_ context.Context, id uint, title, body string) (*models.Post, error) {
			return &models.Post{ID: id, Title: title, Body: body}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// accountRepoStub is a stub for repository.AccountRepository.
type accountRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.Account, error)
	getByUsernameFn func(context.Context, string) (*models.Account, error)
	createFn        func(context.Context, *models.Account) error
	listFn          func(context.Context) ([]models.Account, error)
}

func (s *accountRepoStub) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.getByIDFn(ctx, id)
}
func (s *accountRepoStub) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *accountRepoStub) Create(ctx context.Context, account *models.Account) error {
	return s.createFn(ctx, account)
}
func (s *accountRepoStub) List(ctx context.Context) ([]models.Account, error) {
	return s.listFn(ctx)
}

func noopAccountRepo() *accountRepoStub {
	return &accountRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.Account, error) { return &models.Account{ID: id}, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.Account, error) { return nil, nil },
		createFn: func(_ context.Context, a *models.Account) error {
			a.ID = 1
			return nil
		},
		listFn: func(_ context.Context) ([]models.Account, error) { return nil, nil },
	}
}

// plainHasher keeps service tests fast; it is not a real hash.
type plainHasher struct {
	compared []string
}

func (h *plainHasher) Hash(secret string) (string, error) {
	return "plain:" + secret, nil
}

func (h *plainHasher) Compare(hash, secret string) error {
	h.compared = append(h.compared, hash)
	if hash != "plain:"+secret {
		return errMismatch
	}
	return nil
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeForbidden)
}
