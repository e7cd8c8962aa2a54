package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/product-catalog/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// TokenResolver maps a presented token key to its owner.
type TokenResolver interface {
	Resolve(ctx context.Context, key string) (*model.User, error)
}

// AuthMiddleware resolves opaque bearer tokens to users
type AuthMiddleware struct {
	resolver TokenResolver
	log      *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(resolver TokenResolver, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		log:      log,
	}
}

// Authenticate requires an `Authorization: Token <key>` or `Bearer <key>`
// header and stores the resolved user in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, ok := tokenFromHeader(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}

		user, err := m.resolver.Resolve(r.Context(), key)
		if err != nil {
			if errors.Is(err, model.ErrTokenNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			m.log.ErrorContext(r.Context(), "failed to resolve token", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

func tokenFromHeader(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	return key, true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
