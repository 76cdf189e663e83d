package events

import (
	"context"
	"fmt"
	"log/slog"
)

// Publisher receives domain events after the state change they describe has
// been committed. Implementations must not block the request path.
type Publisher interface {
	Publish(ctx context.Context, event any)
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(ctx context.Context, event any) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "domain event",
		"event", fmt.Sprintf("%T", event),
		"payload", event,
	)
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, any) {}
