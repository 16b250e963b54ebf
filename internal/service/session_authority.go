package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/observability"
	"scribe/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionTokenBytes = 32
	tokenIssuer       = "scribe"
	tokenAudience     = "scribe-web"
)

// SessionAuthority establishes, resolves and terminates login sessions.
// Tokens are HS256 envelopes around a random session token; only the
// SHA-256 digest of that token is persisted.
type SessionAuthority struct {
	sessions repository.SessionRepository
	accounts repository.AccountRepository
	secret   []byte
	now      func() time.Time
}

func NewSessionAuthority(sessions repository.SessionRepository, accounts repository.AccountRepository, secret string) *SessionAuthority {
	return &SessionAuthority{
		sessions: sessions,
		accounts: accounts,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

// Start records a new session for account and returns the bearer token.
func (a *SessionAuthority) Start(ctx context.Context, account *models.Account, meta models.SessionMeta) (string, error) {
	if account == nil || account.ID == 0 {
		return "", models.NewValidationError("Cannot start a session without an account")
	}
	if len(a.secret) == 0 {
		return "", models.NewInternalError(errors.New("session secret not configured"))
	}

	ctx, span := observability.StartSpan(ctx, "service.sessions", "Start")
	defer span.End()

	raw, err := newSessionToken()
	if err != nil {
		return "", models.NewInternalError(err)
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		TokenHash: hashSessionToken(raw),
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: a.now(),
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatUint(uint64(account.ID), 10),
		Issuer:   tokenIssuer,
		Audience: jwt.ClaimStrings{tokenAudience},
		IssuedAt: jwt.NewNumericDate(session.CreatedAt),
		ID:       raw,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	middleware.Logger.InfoContext(ctx, "session started",
		"account_id", account.ID, "session_id", session.ID)
	return signed, nil
}

// Resolve maps a token to its account. Anything that is not a live session
// resolves to nil, nil; only persistence failures are errors.
func (a *SessionAuthority) Resolve(ctx context.Context, token string) (*models.Account, error) {
	claims, ok := a.parse(token)
	if !ok {
		return nil, nil
	}
	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || accountID == 0 {
		return nil, nil
	}

	digest := hashSessionToken(claims.ID)
	session, err := a.sessions.GetByTokenHash(ctx, digest)
	if err != nil {
		return nil, err
	}
	if session == nil || subtle.ConstantTimeCompare([]byte(session.TokenHash), []byte(digest)) != 1 {
		return nil, nil
	}
	if uint64(session.AccountID) != accountID {
		return nil, nil
	}

	account, err := a.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return account, nil
}

// End terminates the session behind token. Ending an unknown or already
// ended session is not an error.
func (a *SessionAuthority) End(ctx context.Context, token string) error {
	claims, ok := a.parse(token)
	if !ok {
		return nil
	}
	n, err := a.sessions.DeleteByTokenHash(ctx, hashSessionToken(claims.ID))
	if err != nil {
		return err
	}
	if n > 0 {
		observability.AuthEvents.WithLabelValues("logout", "success").Inc()
		middleware.Logger.InfoContext(ctx, "session ended", "account_id", claims.Subject)
	}
	return nil
}

// EndAll revokes every session of accountID and reports how many ended.
func (a *SessionAuthority) EndAll(ctx context.Context, accountID uint) (int64, error) {
	n, err := a.sessions.DeleteByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	middleware.Logger.InfoContext(ctx, "sessions revoked", "account_id", accountID, "count", n)
	return n, nil
}

func (a *SessionAuthority) parse(token string) (*jwt.RegisteredClaims, bool) {
	if token == "" || len(a.secret) == 0 {
		return nil, false
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
