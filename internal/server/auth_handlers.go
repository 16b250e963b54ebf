package server

import (
	"time"

	"scribe/internal/middleware"
	"scribe/internal/models"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /api/auth/register. It does not log the caller in.
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	account, err := s.credentials.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registered!",
		"account": account,
	})
}

// Login handles POST /api/auth/login. A session already carried by the
// request is ended first, so sessions never stack on one client.
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	ctx := c.UserContext()

	account, err := s.credentials.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if previous := middleware.TokenFromRequest(c, s.cookieName()); previous != "" {
		if err := s.sessions.End(ctx, previous); err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	token, err := s.sessions.Start(ctx, account, models.SessionMeta{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IPAddress: c.IP(),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.setSessionCookie(c, token)
	return c.JSON(fiber.Map{
		"message": "Logged In!",
		"token":   token,
		"account": account,
	})
}

// Logout handles POST /api/auth/logout. It succeeds for anonymous callers too.
func (s *Server) Logout(c *fiber.Ctx) error {
	if token := middleware.TokenFromRequest(c, s.cookieName()); token != "" {
		if err := s.sessions.End(c.UserContext(), token); err != nil {
			return models.RespondWithAppError(c, err)
		}
	}
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me handles GET /api/auth/me.
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.AccountFrom(c))
}

func (s *Server) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
