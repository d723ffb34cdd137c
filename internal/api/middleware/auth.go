package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/evorgs/calendar-backend/internal/auth"
	"github.com/evorgs/calendar-backend/internal/storage/models"
)

type contextKey string

const principalKey contextKey = "principal"

// Authenticate resolves a bearer token, if present, and stores the
// resulting principal in the request context. Requests without a token
// pass through anonymously; route-level guards decide what to reject.
func Authenticate(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose principal is missing or does not
// hold one of the given roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if principal.Role() == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteError(w, http.StatusForbidden, ErrForbidden, "Insufficient role for this operation")
		})
	}
}

// PrincipalFrom returns the authenticated principal stored by
// Authenticate, if any.
func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(auth.Principal)
	return principal, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
