package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"phoneauth/internal/domain"
	"phoneauth/internal/dto"
	obsmw "phoneauth/internal/observability/middleware"
)

var (
	errBadRequest      = errors.New("bad request")
	errEmptyBody       = errors.New("empty request body")
	errUnauthorized    = errors.New("missing or invalid token")
	errTooManyRequests = errors.New("too many requests")
)

// writeError is the single place where errors become HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := dto.ErrorResponse{Success: false, Error: err.Error()}
	status := http.StatusInternalServerError

	var rl *domain.RateLimitedError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, errEmptyBody),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidPurpose),
		errors.Is(err, domain.ErrInvalidCodeFormat):
		status = http.StatusBadRequest
	case errors.As(err, &rl):
		status = http.StatusTooManyRequests
		body.RetryAfterSeconds = rl.RetryAfterSeconds()
		w.Header().Set("Retry-After", strconv.FormatInt(body.RetryAfterSeconds, 10))
	case errors.Is(err, errTooManyRequests):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, errUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrUserConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	default:
		body.Error = "internal error"
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"ip", clientIP(r),
			"user_agent", truncateUserAgent(r.UserAgent()),
			"request_id", obsmw.RequestIDFromContext(r.Context()),
			"trace_id", obsmw.TraceIDFromContext(r.Context()),
		)
	}

	writeJSON(w, status, body)
}
