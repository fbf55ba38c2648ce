package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/kinovera/festival/api/internal/model"
	"github.com/kinovera/festival/api/pkg/token"
)

// TokenValidator defines the interface for admin token validation
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// ClaimsKey is the context key for token claims
const ClaimsKey contextKey = "claims"

// RoleKey is the context key for the caller's role
const RoleKey contextKey = "role"

// Auth returns a middleware that validates admin tokens
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewUnauthorizedError("missing authorization header").WriteJSON(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				switch err {
				case token.ErrTokenExpired:
					model.NewUnauthorizedError("token expired").WriteJSON(w)
				case token.ErrInvalidSignature:
					model.NewUnauthorizedError("invalid token signature").WriteJSON(w)
				default:
					model.NewUnauthorizedError("invalid token").WriteJSON(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), AccountIDKey, claims.Account)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns a middleware that allows only callers whose role
// passes the check. It must run after Auth.
func RequireRole(check func(role string) bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetRole(r.Context())
			if role == "" {
				model.NewUnauthorizedError("missing authentication").WriteJSON(w)
				return
			}
			if !check(role) {
				model.NewForbiddenError("insufficient role").WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetAccountID extracts the caller's account ID from context
func GetAccountID(ctx context.Context) string {
	if id, ok := ctx.Value(AccountIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRole extracts the caller's role from context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}

// GetClaims extracts the token claims from context
func GetClaims(ctx context.Context) *token.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}
