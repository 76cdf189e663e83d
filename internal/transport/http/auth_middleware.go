package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	obsmw "phoneauth/internal/observability/middleware"
	"phoneauth/internal/service"
	"phoneauth/internal/session"
)

type claimsKey struct{}

func bearerAuth(tokens service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				slog.Warn("missing bearer token", "request_id", reqID)
				writeError(w, r, errUnauthorized)
				return
			}
			claims, err := tokens.Verify(strings.TrimSpace(raw[len("Bearer "):]))
			if err != nil {
				slog.Warn("invalid bearer token", "error", err, "request_id", reqID)
				writeError(w, r, errUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFrom(ctx context.Context) (*session.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*session.Claims)
	return c, ok && c != nil
}
