package middleware

import (
	"context"
	"strings"

	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SessionResolver maps a bearer token to its account. A token that does not
// name a live session resolves to nil, nil.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Account, error)
}

// LocalAccount holds the resolved *models.Account for handlers that render it.
const LocalAccount = "account"

// TokenFromRequest reads the session token from the cookie first, then from
// an "Authorization: Bearer" header.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ResolveSession attaches the caller's identity to every request. Anonymous
// visitors pass through; routes decide for themselves whether that is enough.
func ResolveSession(resolver SessionResolver, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			return c.Next()
		}

		account, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			Logger.ErrorContext(c.UserContext(), "session lookup failed", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if account == nil {
			return c.Next()
		}

		c.Locals(LocalAccountID, account.ID)
		c.Locals(LocalAccount, account)
		c.SetUserContext(WithAccount(c.UserContext(), account.ID))
		return c.Next()
	}
}

// AuthRequired rejects requests that ResolveSession left anonymous.
func AuthRequired(c *fiber.Ctx) error {
	if !StateFrom(c).IsAuthenticated() {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Login required"))
	}
	return c.Next()
}

// StateFrom returns the identity ResolveSession stored for this request.
func StateFrom(c *fiber.Ctx) models.SessionState {
	if id, ok := c.Locals(LocalAccountID).(uint); ok && id != 0 {
		return models.AuthenticatedAs(id)
	}
	return models.Anonymous()
}

// AccountFrom returns the resolved account, or nil for anonymous requests.
func AccountFrom(c *fiber.Ctx) *models.Account {
	account, _ := c.Locals(LocalAccount).(*models.Account)
	return account
}
