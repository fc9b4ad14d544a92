package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/smartrecipe/backend/internal/service"
)

func TestHealthAndRoot(t *testing.T) {
	env := newTestEnv(t)

	var health map[string]string
	decode(t, env.do("GET", "/health", "", nil), http.StatusOK, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "ok", health["database"])

	var root map[string]string
	decode(t, env.do("GET", "/api/", "", nil), http.StatusOK, &root)
	assert.Equal(t, "http://example.com/api/shopping-list/", root["shopping_list"])
	assert.Equal(t, "http://example.com/api/token/refresh", root["token_refresh"])
	for _, key := range []string{"user", "ingredient", "recipe", "community", "nutrition"} {
		assert.Contains(t, root, key)
	}
}

func TestHealthReportsUnreachableDatabase(t *testing.T) {
	env := newTestEnv(t)
	sqlDB, err := env.db.DB()
	assert.NoError(t, err)
	sqlDB.Close()

	decode(t, env.do("GET", "/health", "", nil), http.StatusServiceUnavailable, nil)
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", service.FieldError("name", "required"), http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("recipe %w", service.ErrNotFound), http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized},
		{"invalid token", service.ErrInvalidToken, http.StatusUnauthorized},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)

			env := decode(t, w, tt.status, nil)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", env.Message)
				assert.Len(t, c.Errors, 1)
			}
		})
	}
}

func TestValidationErrorCarriesFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, service.FieldError("email", "enter a valid email address"))

	var fields map[string][]string
	env := decode(t, w, http.StatusBadRequest, &fields)
	assert.Equal(t, "validation failed", env.Message)
	assert.Equal(t, []string{"enter a valid email address"}, fields["email"])
}
