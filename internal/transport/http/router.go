package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	obsmw "phoneauth/internal/observability/middleware"
	"phoneauth/internal/service"
)

type RouterConfig struct {
	CORSOrigins    []string
	AuthRateLimit  int // requests per IP per minute on /auth, 0 disables
	RequestTimeout time.Duration
	// Ready reports whether backing stores are reachable; nil means always ready.
	Ready func(ctx context.Context) error
}

func NewRouter(auth service.AuthService, tokens service.TokenService, cfg RouterConfig) http.Handler {
	h := &handlers{auth: auth, tokens: tokens}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	r := chi.NewRouter()

	// --- Middlewares ---
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(obsmw.WithMetrics)
	r.Use(chimw.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(cfg.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id", "X-Trace-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id", "X-Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			if err := cfg.Ready(r.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/.well-known/jwks.json", h.jwks)

	r.Route("/auth", func(r chi.Router) {
		if cfg.AuthRateLimit > 0 {
			r.Use(httprate.Limit(cfg.AuthRateLimit, time.Minute,
				httprate.WithKeyFuncs(clientIPKey),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, r, errTooManyRequests)
				}),
			))
		}
		r.Post("/send-code", h.sendCode)
		r.Post("/register", h.register)
		r.Post("/login", h.login)

		r.Group(func(pr chi.Router) {
			pr.Use(bearerAuth(tokens))
			pr.Get("/me", h.me)
		})
	})

	return r
}

func originsIfSet(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
