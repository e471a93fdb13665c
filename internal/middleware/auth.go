package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmynk/budgetsync/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// extractToken pulls the token out of the Authorization header. Both
// "Bearer <token>" and a raw token are accepted; existing clients send the
// token bare.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return header
}

// RequireAuth wraps a handler so it only runs for requests carrying a valid
// token. The user ID and email from the claims are added to the request
// context; the wrapped handler can rely on GetUserID returning a non-empty
// value.
func RequireAuth(jwtManager *auth.JWTManager, errorWriter func(w http.ResponseWriter, status int, msg string), next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			errorWriter(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			errorWriter(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, EmailKey, claims.Email)

		next(w, r.WithContext(ctx))
	}
}
