package middleware

import (
	"net/http"
	"strings"

	"github.com/snapvault/snapvault-api/internal/pkg/jwt"
	"github.com/snapvault/snapvault-api/internal/pkg/response"
)

// AdminAuth returns middleware that validates the admin session token.
// Tokens are server-issued, signed and expiring; there is no client-trusted
// session flag.
func AdminAuth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			if _, err := jwtService.ValidateSessionToken(parts[1]); err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Session expired")
				} else {
					response.Unauthorized(w, "Invalid session token")
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
