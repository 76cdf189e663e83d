package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"phoneauth/internal/domain"
	"phoneauth/internal/observability/metrics"
	"phoneauth/internal/observability/middleware"
	"phoneauth/internal/phone"
)

type codeConsumer interface {
	TryConsume(ctx context.Context, phone string, purpose domain.Purpose, codeHash string, now time.Time) (domain.ConsumeResult, error)
}

type codeDigester interface {
	Digest(phone string, purpose domain.Purpose, code string) (string, error)
}

// VerifierImpl is the only place that decides whether a code is valid.
// A successful Verify consumes the code.
type VerifierImpl struct {
	Codes    codeConsumer
	Digester codeDigester
	Clock    func() time.Time
}

func NewVerifier(codes codeConsumer, digester codeDigester, clock func() time.Time) *VerifierImpl {
	if clock == nil {
		clock = utcNow
	}
	return &VerifierImpl{Codes: codes, Digester: digester, Clock: clock}
}

func (v *VerifierImpl) Verify(ctx context.Context, p string, purpose domain.Purpose, code string) error {
	digest, err := v.Digester.Digest(p, purpose, code)
	if err != nil {
		return fmt.Errorf("digest code: %w", err)
	}
	res, err := v.Codes.TryConsume(ctx, p, purpose, digest, v.Clock())
	if err != nil {
		metrics.CodeVerificationsTotal.WithLabelValues(string(purpose), "error").Inc()
		return fmt.Errorf("consume code: %w", err)
	}
	metrics.CodeVerificationsTotal.WithLabelValues(string(purpose), res.String()).Inc()
	if res != domain.ConsumeOK {
		slog.Debug("code rejected",
			"phone", phone.Mask(p),
			"purpose", purpose,
			"reason", res.String(),
			"request_id", middleware.RequestIDFromContext(ctx),
		)
		return domain.ErrInvalidCode
	}
	return nil
}

func utcNow() time.Time { return time.Now().UTC() }
