package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"scribe/internal/config"
	"scribe/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCookie = "scribe_session"

func testConfig(feedRequiresAuth bool) *config.Config {
	return &config.Config{
		Env:               "test",
		Port:              "0",
		SessionSecret:     "test-session-secret-0123456789abcdef",
		SessionCookieName: testCookie,
		FeedRequiresAuth:  feedRequiresAuth,
		BcryptCost:        bcrypt.MinCost,
		AllowedOrigins:    "http://localhost:5173",
	}
}

func newTestServer(t *testing.T, feedRequiresAuth bool) (*Server, *fiber.App) {
	t.Helper()
	srv, err := NewServerWithDeps(testConfig(feedRequiresAuth), testutil.NewSQLiteDB(t), nil)
	require.NoError(t, err)
	return srv, srv.App()
}

// client carries a session cookie between requests like a browser would.
type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app}
}

func (cl *client) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	cl.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cl.token})
	}
	return cl.send(req)
}

func (cl *client) form(method, path string, values url.Values) (*http.Response, map[string]interface{}) {
	cl.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cl.token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: cl.token})
	}
	return cl.send(req)
}

func (cl *client) send(req *http.Request) (*http.Response, map[string]interface{}) {
	cl.t.Helper()
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	defer func() { _ = resp.Body.Close() }()

	for _, ck := range resp.Cookies() {
		if ck.Name == testCookie {
			cl.token = ck.Value
		}
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(cl.t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(cl.t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 && raw[0] == '[' {
		var list []interface{}
		require.NoError(cl.t, json.Unmarshal(raw, &list))
		out["items"] = list
	}
	return resp, out
}

func (cl *client) registerAndLogin(username, password string) uint {
	cl.t.Helper()
	creds := map[string]string{"username": username, "password": password}

	resp, _ := cl.do(http.MethodPost, "/api/auth/register", creds)
	require.Equal(cl.t, fiber.StatusCreated, resp.StatusCode)

	resp, body := cl.do(http.MethodPost, "/api/auth/login", creds)
	require.Equal(cl.t, fiber.StatusOK, resp.StatusCode)
	account := body["account"].(map[string]interface{})
	return uint(account["id"].(float64))
}

func items(body map[string]interface{}) []interface{} {
	list, _ := body["items"].([]interface{})
	return list
}

// TestAliceScenario walks the full register, write, edit, delete, logout cycle.
func TestAliceScenario(t *testing.T) {
	_, app := newTestServer(t, true)
	alice := newClient(t, app)

	resp, body := alice.do(http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "password": "pw1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Registered!", body["message"])
	assert.Empty(t, alice.token, "registration must not log the caller in")

	resp, body = alice.do(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "pw1"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged In!", body["message"])
	require.NotEmpty(t, alice.token)

	resp, body = alice.do(http.MethodPost, "/api/posts", map[string]string{"title": "Hello", "body": "World"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Blog Posted", body["message"])
	post := body["post"].(map[string]interface{})
	postPath := "/api/posts/" + formatID(post["id"])

	resp, body = alice.do(http.MethodGet, "/api/posts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	feed := items(body)
	require.Len(t, feed, 1)
	first := feed[0].(map[string]interface{})
	assert.Equal(t, "Hello", first["title"])
	assert.Equal(t, "alice", first["author"].(map[string]interface{})["username"])

	resp, body = alice.do(http.MethodPut, postPath, map[string]string{"title": "Hello2", "body": "World2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Blog updated", body["message"])

	resp, body = alice.do(http.MethodGet, postPath, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello2", body["title"])
	assert.Equal(t, "World2", body["body"])

	resp, body = alice.do(http.MethodDelete, postPath, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Your post has been deleted", body["message"])

	resp, body = alice.do(http.MethodGet, "/api/posts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, items(body))

	resp, body = alice.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", body["message"])
	assert.Empty(t, alice.token)

	resp, body = alice.do(http.MethodGet, "/api/posts", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["code"])
}

func TestHealthEndpoints(t *testing.T) {
	_, app := newTestServer(t, true)
	cl := newClient(t, app)

	resp, body := cl.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "up", body["status"])

	resp, body = cl.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "disabled", checks["redis"])
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	_, app := newTestServer(t, true)
	resp, body := newClient(t, app).do(http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestNewServerWithDeps_RequiresDB(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(true), nil, nil)
	assert.Error(t, err)
}

func formatID(v interface{}) string {
	return strconv.FormatFloat(v.(float64), 'f', 0, 64)
}
