package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/formlite/formlite/internal/auth"
)

type authCtxKey int

const authKey authCtxKey = 7

// WithAuth attaches session claims to the request context when a valid
// bearer token is present. A missing, malformed, or invalid Authorization
// header leaves the context bare, which downstream treats as unauthorized.
func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			tok := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			if c := auth.Verify(tok); c != nil {
				ctx := context.WithValue(r.Context(), authKey, c)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext returns the authenticated owner id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if c, ok := ctx.Value(authKey).(*auth.Claims); ok && c.UserID != "" {
		return c.UserID, true
	}
	return "", false
}
