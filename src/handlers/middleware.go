// backend/src/handlers/middleware.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/username/contaclara/backend/src/logger"
	"github.com/username/contaclara/backend/src/utils"
)

type contextKey string

const userIDContextKey contextKey = "userID"

// userIDHeader is injected by the upstream gateway after it authenticates the
// request. Authentication itself is not this service's concern; a missing or
// malformed header is simply rejected.
const userIDHeader = "X-User-ID"

// IdentityMiddleware extracts the gateway-provided user id into the request
// context for downstream handlers.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headerValue := r.Header.Get(userIDHeader)
		if headerValue == "" {
			logger.L.Debug("IdentityMiddleware: user id header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "user identity header required", http.StatusUnauthorized)
			return
		}
		userID, err := strconv.ParseInt(headerValue, 10, 64)
		if err != nil || userID <= 0 {
			logger.L.Warn("IdentityMiddleware: malformed user id header", "path", r.URL.Path, "value", headerValue)
			utils.SendJSONError(w, "malformed user identity header", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext retrieves the userID from the context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}
