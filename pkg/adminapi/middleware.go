package adminapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/trtpd/trtpd/pkg/adminapi/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// claimsFromContext retrieves the operator claims a JWTAuth middleware
// validated for this request. Returns nil outside an authenticated route.
func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// jwtAuth validates the Authorization header's bearer token and stores its
// claims in the request context, or responds 401 if missing or invalid.
func jwtAuth(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				Unauthorized(w, "authorization header required")
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				Unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
