package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"phoneauth/internal/domain"
	"phoneauth/internal/observability/metrics"
	"phoneauth/internal/observability/middleware"
	"phoneauth/internal/phone"
)

type Config struct {
	Issuer string        // e.g. "phoneauth"
	TTL    time.Duration // e.g. 24 * time.Hour
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Issuer decides which claims go into a session token and for how long it
// lives; the Signer does the cryptography.
type Issuer struct {
	cfg    Config
	signer Signer
	clock  func() time.Time
}

func NewIssuer(cfg Config, signer Signer, clock func() time.Time) *Issuer {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Issuer{cfg: cfg, signer: signer, clock: clock}
}

func (i *Issuer) Issue(ctx context.Context, user *domain.User) (Token, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues(result).Inc()
	}()

	now := i.clock()
	claims := &Claims{
		Phone: user.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
			ID:        uuid.NewString(),
		},
	}
	value, err := i.signer.Sign(claims)
	if err != nil {
		result = "failure"
		return Token{}, err
	}

	slog.Info("issued session token",
		"user_id", user.ID,
		"phone", phone.Mask(user.Phone),
		"alg", i.signer.Alg(),
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
	return Token{Value: value, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify checks signature, issuer and expiry and returns the claims.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims, err := i.signer.Parse(token,
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWKS lists the publishable verification keys; empty for shared-secret signers.
func (i *Issuer) JWKS() []map[string]any {
	if ks, ok := i.signer.(KeySet); ok {
		return []map[string]any{ks.PublicJWK()}
	}
	return []map[string]any{}
}
