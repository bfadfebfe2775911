package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/spark/internal/api/response"
	"github.com/dom/spark/internal/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
)

type TokenValidator interface {
	ValidateToken(token string) (domain.Identity, error)
}

// Auth rejects requests without a valid bearer token and stores the caller's
// Identity on the request context.
func Auth(validator TokenValidator, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("[middleware.Auth] missing authorization header")
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				log.Debug("[middleware.Auth] invalid authorization header format")
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization header")
				return
			}

			identity, err := validator.ValidateToken(parts[1])
			if err != nil {
				log.WithError(err).Debug("[middleware.Auth] token validation failed")
				response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(domain.Identity)
	return identity, ok
}

func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := GetIdentity(ctx)
	return identity.UserID, ok
}
