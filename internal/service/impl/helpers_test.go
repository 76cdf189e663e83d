package impl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"phoneauth/internal/domain"
	"phoneauth/internal/otp"
	"phoneauth/internal/ratelimit"
	"phoneauth/internal/session"
	"phoneauth/internal/store"
)

var baseTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// sequenceGenerator hands out the configured codes in order and repeats the
// last one once exhausted.
type sequenceGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return "", errors.New("no codes configured")
	}
	code := g.codes[g.next]
	if g.next < len(g.codes)-1 {
		g.next++
	}
	return code, nil
}

type sentCode struct {
	phone   string
	code    string
	purpose domain.Purpose
	ttl     time.Duration
}

type recordingSMS struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (s *recordingSMS) SendCode(_ context.Context, phone, code string, purpose domain.Purpose, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentCode{phone: phone, code: code, purpose: purpose, ttl: ttl})
	return nil
}

func (s *recordingSMS) last(t *testing.T) sentCode {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatalf("expected a code to be sent")
	}
	return s.sent[len(s.sent)-1]
}

func (s *recordingSMS) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, event any) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *recordingPublisher) snapshot() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.events...)
}

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	st := store.New(db)
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

type testEnv struct {
	svc     *AuthServiceImpl
	store   *store.Store
	clock   *manualClock
	sms     *recordingSMS
	events  *recordingPublisher
	limiter *ratelimit.Memory
	issuer  *session.Issuer
}

type envOption func(*AuthConfig)

func withAutoProvision(cfg *AuthConfig) { cfg.AutoProvisionOnLogin = true }

func newTestEnv(t *testing.T, codes []string, opts ...envOption) *testEnv {
	t.Helper()

	clock := &manualClock{now: baseTime}
	st := setupStore(t)
	digester, _, err := otp.NewDigester("test-pepper")
	if err != nil {
		t.Fatalf("digester: %v", err)
	}
	signer, err := session.NewHS256Signer("test-secret")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	issuer := session.NewIssuer(session.Config{Issuer: "phoneauth", TTL: 24 * time.Hour}, signer, clock.Now)
	limiter := ratelimit.NewMemory(60*time.Second, clock.Now)
	sms := &recordingSMS{}

	cfg := AuthConfig{CodeTTL: 300 * time.Second, CodeLength: 6}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc := NewAuthServiceImpl(st, limiter, &sequenceGenerator{codes: codes}, digester, issuer, sms, cfg)
	svc.Clock = clock.Now
	pub := &recordingPublisher{}
	svc.Events = pub

	return &testEnv{svc: svc, store: st, clock: clock, sms: sms, events: pub, limiter: limiter, issuer: issuer}
}
