package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"
	"scribe/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and checks account secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	// Compare returns nil on match and bcrypt.ErrMismatchedHashAndPassword on mismatch.
	Compare(hash, secret string) error
}

// BcryptHasher implements PasswordHasher with golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, secret string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
}

// CredentialStore owns accounts and their hashed secrets.
type CredentialStore struct {
	accounts repository.AccountRepository
	hasher   PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialStore(accounts repository.AccountRepository, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{accounts: accounts, hasher: hasher}
}

// Register creates an account. An existing username is never overwritten.
func (s *CredentialStore) Register(ctx context.Context, username, secret string) (*models.Account, error) {
	ctx, span := observability.StartSpan(ctx, "service.credentials", "Register",
		attribute.String("account.username", username))
	account, err := s.register(ctx, username, secret)
	observability.EndSpan(span, err)

	observability.AuthEvents.WithLabelValues("register", authResult(err)).Inc()
	return account, err
}

func (s *CredentialStore) register(ctx context.Context, username, secret string) (*models.Account, error) {
	if err := validation.ValidateAccount(username, secret); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateUsernameError(username)
	}

	hashed, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	account := &models.Account{Username: username, PasswordHash: hashed}
	// A concurrent registration can still win between the lookup and here;
	// the unique index turns that into DUPLICATE_USERNAME.
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "account registered",
		"account_id", account.ID, "username", account.Username)
	return account, nil
}

// FindByUsername returns nil, nil when no account has that exact username.
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.accounts.GetByUsername(ctx, username)
}

// Verify checks a username and secret pair. Unknown usernames still pay for a
// hash comparison so timing does not reveal which accounts exist.
func (s *CredentialStore) Verify(ctx context.Context, username, secret string) (*models.Account, error) {
	ctx, span := observability.StartSpan(ctx, "service.credentials", "Verify",
		attribute.String("account.username", username))
	account, err := s.verify(ctx, username, secret)
	observability.EndSpan(span, err)

	observability.AuthEvents.WithLabelValues("login", authResult(err)).Inc()
	return account, err
}

func (s *CredentialStore) verify(ctx context.Context, username, secret string) (*models.Account, error) {
	if err := validation.ValidateLogin(username, secret); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if account == nil {
		_ = s.hasher.Compare(s.fallbackHash(), secret)
		return nil, models.NewInvalidCredentialsError()
	}

	if err := s.hasher.Compare(account.PasswordHash, secret); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewInvalidCredentialsError()
		}
		middleware.Logger.WarnContext(ctx, "stored password hash unusable",
			"account_id", account.ID, "error", err)
		return nil, models.NewInvalidCredentialsError()
	}
	return account, nil
}

// fallbackHash is a real hash of a throwaway secret at the configured cost,
// so comparing against it costs the same as a genuine mismatch.
func (s *CredentialStore) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash("scribe-timing-equaliser")
		if err != nil {
			hashed = "$2a$10$" + strings.Repeat("A", 53)
		}
		s.dummyHash = hashed
	})
	return s.dummyHash
}

func authResult(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return strings.ToLower(appErr.Code)
	}
	return "error"
}
