package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"phoneauth/internal/config"
	"phoneauth/internal/events"
	"phoneauth/internal/observability/logging"
	"phoneauth/internal/observability/metrics"
	"phoneauth/internal/otp"
	"phoneauth/internal/ratelimit"
	"phoneauth/internal/service"
	impl "phoneauth/internal/service/impl"
	"phoneauth/internal/session"
	"phoneauth/internal/store"
	httpx "phoneauth/internal/transport/http"
	"phoneauth/pkg/db"
)

const serviceName = "phoneauth"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger(logging.Config{ServiceName: serviceName}).Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting service", "addr", cfg.Addr, "issuer", cfg.Issuer)
	metrics.MustRegister(serviceName)

	// 1) DB
	gdb, closeDB, err := db.Open(ctx, db.Config{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		LogSQL:   cfg.DBLogSQL,
	})
	if err != nil {
		return err
	}
	defer closeDB()

	st := store.New(gdb)
	if cfg.DBAutoMigrate {
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	readiness := []func(context.Context) error{st.Ping}

	// 2) Rate limiter + janitor
	janitor := &impl.CodeJanitor{Codes: st.Codes(), Interval: cfg.JanitorInterval}
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		limiter = ratelimit.NewRedis(rdb, cfg.CodeCooldown, cfg.RateLimitPrefix)
		readiness = append(readiness, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("using redis rate limiter", "prefix", cfg.RateLimitPrefix)
	} else {
		mem := ratelimit.NewMemory(cfg.CodeCooldown, nil)
		limiter = mem
		janitor.Limiter = mem
		logger.Info("using in-memory rate limiter")
	}

	// 3) Codes
	generator, err := otp.NewNumericGenerator(cfg.CodeLength)
	if err != nil {
		return err
	}
	digester, generated, err := otp.NewDigester(cfg.CodePepper)
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("CODE_PEPPER not set, using a per-process key; outstanding codes will not survive a restart")
	}

	// 4) Sessions
	signer, err := newSigner(cfg)
	if err != nil {
		return err
	}
	issuer := session.NewIssuer(session.Config{Issuer: cfg.Issuer, TTL: cfg.SessionTTL}, signer, nil)

	// 5) Services
	as := impl.NewAuthServiceImpl(st, limiter, generator, digester, issuer, newSMSService(cfg, logger), impl.AuthConfig{
		CodeTTL:              cfg.CodeTTL,
		CodeLength:           cfg.CodeLength,
		AutoProvisionOnLogin: cfg.AutoProvision,
	})
	as.Events = events.LogPublisher{Logger: logger}

	// 6) HTTP router
	router := httpx.NewRouter(as, issuer, httpx.RouterConfig{
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.HTTPRateLimit,
		Ready: func(ctx context.Context) error {
			for _, check := range readiness {
				if err := check(ctx); err != nil {
					return err
				}
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	jctx, cancelJanitor := context.WithCancel(ctx)
	defer cancelJanitor()
	go janitor.Run(jctx)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("phoneauth listening", "addr", srv.Addr, "signing_alg", signer.Alg(), "auto_provision", cfg.AutoProvision)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func newSigner(cfg config.Config) (session.Signer, error) {
	switch cfg.SigningAlg {
	case config.AlgEdDSA:
		s, err := session.NewEd25519FromBase64(cfg.SigningKeyEd25519, cfg.SigningKeyID)
		if err != nil {
			return nil, err
		}
		if cfg.SigningKeyEd25519 == "" {
			slog.Warn("SIGNING_KEY_ED25519 not set, using an ephemeral key")
		}
		return s, nil
	default:
		return session.NewHS256Signer(cfg.SigningKey)
	}
}

func newSMSService(cfg config.Config, logger *slog.Logger) service.SMSService {
	if cfg.SMSProvider == config.SMSProviderSeven {
		return impl.NewSevenSMSService(cfg.SevenAPIKey, cfg.SMSFrom, cfg.SevenEndpoint)
	}
	logger.Warn("SMS_PROVIDER=log: verification codes are written to the log")
	return impl.LogSMSService{Logger: logger}
}
