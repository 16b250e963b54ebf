package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c, "id", "item")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{"valid", "/items/42", fiber.StatusOK, map[string]interface{}{"id": float64(42)}},
		{"zero", "/items/0", fiber.StatusBadRequest, map[string]interface{}{"error": "Invalid item ID", "code": "VALIDATION_ERROR"}},
		{"negative", "/items/-3", fiber.StatusBadRequest, map[string]interface{}{"error": "Invalid item ID", "code": "VALIDATION_ERROR"}},
		{"not a number", "/items/abc", fiber.StatusBadRequest, map[string]interface{}{"error": "Invalid item ID", "code": "VALIDATION_ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedBody, body)
		})
	}
}
