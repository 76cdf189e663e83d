package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"phoneauth/internal/domain"
	"phoneauth/internal/dto"
	"phoneauth/internal/events"
	"phoneauth/internal/observability/metrics"
	"phoneauth/internal/observability/middleware"
	"phoneauth/internal/otp"
	"phoneauth/internal/phone"
	"phoneauth/internal/ratelimit"
	"phoneauth/internal/service"
	"phoneauth/internal/store"
)

type AuthConfig struct {
	CodeTTL    time.Duration
	CodeLength int
	// AutoProvisionOnLogin lets Login create the account for an unknown phone.
	// When false, Login for an unknown phone fails with ErrUserNotFound.
	AutoProvisionOnLogin bool
}

// AuthServiceImpl coordinates code issuance and the register/login flows.
// It keeps no per-request state; all state lives in the stores and limiter.
type AuthServiceImpl struct {
	Codes     codeStore
	Users     userStore
	Limiter   ratelimit.Limiter
	Generator otp.Generator
	Digester  codeDigester
	Verifier  service.Verifier
	Tokens    service.TokenService
	SMS       service.SMSService
	Events    events.Publisher
	Clock     func() time.Time
	Config    AuthConfig
}

type codeStore interface {
	Put(ctx context.Context, c *domain.VerificationCode) error
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindOrCreate(ctx context.Context, phone string, now time.Time) (*domain.User, bool, error)
}

func NewAuthServiceImpl(
	st *store.Store,
	limiter ratelimit.Limiter,
	generator otp.Generator,
	digester *otp.Digester,
	tokens service.TokenService,
	sms service.SMSService,
	cfg AuthConfig,
) *AuthServiceImpl {
	a := &AuthServiceImpl{
		Codes:     st.Codes(),
		Users:     st.Users(),
		Limiter:   limiter,
		Generator: generator,
		Digester:  digester,
		Tokens:    tokens,
		SMS:       sms,
		Events:    events.Nop{},
		Clock:     utcNow,
		Config:    cfg,
	}
	// The verifier reads the coordinator's clock so both agree on "now".
	a.Verifier = NewVerifier(st.Codes(), digester, func() time.Time { return a.Clock() })
	return a
}

func (a *AuthServiceImpl) RequestCode(ctx context.Context, r dto.SendCodeRequest) (_ *dto.SendCodeResponse, err error) {
	purposeLabel := "unknown"
	defer func() {
		metrics.CodesIssuedTotal.WithLabelValues(purposeLabel, outcome(err)).Inc()
	}()

	p, err := phone.Normalize(r.Phone)
	if err != nil {
		return nil, err
	}
	purpose, err := domain.ParsePurpose(r.Purpose)
	if err != nil {
		return nil, err
	}
	purposeLabel = purpose.String()

	decision, err := a.Limiter.CheckAndRecord(ctx, p, purpose)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	if !decision.Allowed {
		rl := &domain.RateLimitedError{RetryAfter: decision.RetryAfter}
		slog.Info("code request rate limited",
			"phone", phone.Mask(p),
			"purpose", purpose,
			"retry_after_seconds", rl.RetryAfterSeconds(),
			"request_id", middleware.RequestIDFromContext(ctx),
		)
		return nil, rl
	}

	code, err := a.Generator.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	digest, err := a.Digester.Digest(p, purpose, code)
	if err != nil {
		return nil, fmt.Errorf("digest code: %w", err)
	}

	now := a.Clock()
	rec := &domain.VerificationCode{
		ID:        uuid.New(),
		Phone:     p,
		Purpose:   purpose,
		CodeHash:  digest,
		ExpiresAt: now.Add(a.Config.CodeTTL),
		CreatedAt: now,
	}
	if err := a.Codes.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store code: %w", err)
	}
	if err := a.SMS.SendCode(ctx, p, code, purpose, a.Config.CodeTTL); err != nil {
		return nil, fmt.Errorf("deliver code: %w", err)
	}

	slog.Info("verification code issued",
		"phone", phone.Mask(p),
		"purpose", purpose,
		"expires_at", rec.ExpiresAt,
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	a.publish(ctx, events.CodeIssued{Phone: phone.Mask(p), Purpose: purpose.String(), ExpiresAt: rec.ExpiresAt, At: now})

	return &dto.SendCodeResponse{
		Success:          true,
		ExpiresInSeconds: int64(a.Config.CodeTTL / time.Second),
	}, nil
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (_ *dto.AuthResponse, err error) {
	defer func() {
		metrics.AuthRegistrationsTotal.WithLabelValues(outcome(err)).Inc()
	}()

	p, err := a.validate(r.Phone, r.Code)
	if err != nil {
		return nil, err
	}
	if err := a.Verifier.Verify(ctx, p, domain.PurposeRegister, r.Code); err != nil {
		return nil, err
	}

	// The code is spent at this point; a conflict below does not restore it.
	if _, err := a.Users.GetByPhone(ctx, p); err == nil {
		return nil, domain.ErrUserConflict
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	u := &domain.User{
		ID:        uuid.New(),
		Phone:     p,
		CreatedAt: a.Clock(),
	}
	if err := a.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := a.issue(ctx, u)
	if err != nil {
		return nil, err
	}

	slog.Info("user registered",
		"user_id", u.ID,
		"phone", phone.Mask(p),
		"request_id", middleware.RequestIDFromContext(ctx),
	)
	a.publish(ctx, events.UserRegistered{UserID: u.ID.String(), Phone: phone.Mask(p), At: u.CreatedAt})
	return resp, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (_ *dto.AuthResponse, err error) {
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(outcome(err)).Inc()
	}()

	p, err := a.validate(r.Phone, r.Code)
	if err != nil {
		return nil, err
	}
	if err := a.Verifier.Verify(ctx, p, domain.PurposeLogin, r.Code); err != nil {
		return nil, err
	}

	var (
		user        *domain.User
		provisioned bool
	)
	if a.Config.AutoProvisionOnLogin {
		user, provisioned, err = a.Users.FindOrCreate(ctx, p, a.Clock())
		if err != nil {
			return nil, fmt.Errorf("find or create user: %w", err)
		}
	} else {
		user, err = a.Users.GetByPhone(ctx, p)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
	}

	resp, err := a.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in",
		"user_id", user.ID,
		"phone", phone.Mask(p),
		"provisioned", provisioned,
		"request_id", middleware.RequestIDFromContext(ctx),
	)
	a.publish(ctx, events.UserLoggedIn{UserID: user.ID.String(), Provisioned: provisioned, At: a.Clock()})
	return resp, nil
}

func (a *AuthServiceImpl) CurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserSummary, error) {
	u, err := a.Users.GetByID(ctx, userID)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	summary := dto.NewUserSummary(u)
	return &summary, nil
}

// validate normalizes the phone and checks the code shape before anything
// touches storage.
func (a *AuthServiceImpl) validate(rawPhone, code string) (string, error) {
	p, err := phone.Normalize(rawPhone)
	if err != nil {
		return "", err
	}
	if !otp.NewFormatValidator(a.Config.CodeLength).Valid(code) {
		return "", domain.ErrInvalidCodeFormat
	}
	return p, nil
}

func (a *AuthServiceImpl) issue(ctx context.Context, u *domain.User) (*dto.AuthResponse, error) {
	tok, err := a.Tokens.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.AuthResponse{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		User:      dto.NewUserSummary(u),
	}, nil
}

func (a *AuthServiceImpl) publish(ctx context.Context, event any) {
	if a.Events != nil {
		a.Events.Publish(ctx, event)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidPurpose),
		errors.Is(err, domain.ErrInvalidCodeFormat):
		return "invalid_input"
	case errors.Is(err, domain.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrUserConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
