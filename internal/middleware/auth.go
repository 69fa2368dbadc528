package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/biovolailles/bvugo/internal/models"
	"github.com/biovolailles/bvugo/internal/utils"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

// UserContextKey carries the validated JWT claims through the request context
const UserContextKey contextKey = "user"

// Auth verifies JWT tokens on staff routes. The trace routes never pass
// through here; they are public.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], secret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Claims extracts the validated claims injected by Auth
func Claims(r *http.Request) jwt.MapClaims {
	claims, _ := r.Context().Value(UserContextKey).(jwt.MapClaims)
	return claims
}

// HasRole reports whether the request carries one of the given roles.
// Super admins pass every role gate.
func HasRole(r *http.Request, roles ...string) bool {
	claims := Claims(r)
	if claims == nil {
		return false
	}
	held := utils.ClaimRoles(claims)
	for _, have := range held {
		if have == models.RoleSuperAdmin {
			return true
		}
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Approved reports whether the account behind the request is approved.
// Super admins are always approved.
func Approved(r *http.Request) bool {
	claims := Claims(r)
	if claims == nil {
		return false
	}
	for _, role := range utils.ClaimRoles(claims) {
		if role == models.RoleSuperAdmin {
			return true
		}
	}
	approved, _ := claims["approved"].(bool)
	return approved
}
