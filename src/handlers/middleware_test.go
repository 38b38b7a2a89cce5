// backend/src/handlers/middleware_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/contaclara/backend/src/logger"
)

func init() {
	logger.InitLogger("error")
}

func identityProbe(t *testing.T) (http.Handler, *int64) {
	t.Helper()
	var captured int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		captured = userID
		w.WriteHeader(http.StatusOK)
	})
	return IdentityMiddleware(next), &captured
}

func TestIdentityMiddlewarePassesUserID(t *testing.T) {
	handler, captured := identityProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/api/batches", nil)
	req.Header.Set("X-User-ID", "42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 42, *captured)
}

func TestIdentityMiddlewareMissingHeader(t *testing.T) {
	handler, _ := identityProbe(t)

	req := httptest.NewRequest(http.MethodGet, "/api/batches", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIdentityMiddlewareMalformedHeader(t *testing.T) {
	for _, value := range []string{"abc", "-5", "0", "1.5"} {
		handler, _ := identityProbe(t)

		req := httptest.NewRequest(http.MethodGet, "/api/batches", nil)
		req.Header.Set("X-User-ID", value)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header value %q", value)
	}
}

func TestGetUserIDFromContextAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetUserIDFromContext(req.Context())
	assert.False(t, ok)
}
