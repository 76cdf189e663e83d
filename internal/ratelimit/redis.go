package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phoneauth/internal/domain"
)

// Redis shares cooldown state between instances. SET NX PX both tests and
// records the issuance; the key's remaining TTL is the retry-after.
type Redis struct {
	client   redis.UniversalClient
	cooldown time.Duration
	prefix   string
}

func NewRedis(client redis.UniversalClient, cooldown time.Duration, prefix string) *Redis {
	if prefix == "" {
		prefix = "phoneauth:ratelimit"
	}
	return &Redis{client: client, cooldown: cooldown, prefix: prefix}
}

func (r *Redis) CheckAndRecord(ctx context.Context, phone string, purpose domain.Purpose) (Decision, error) {
	k := r.prefix + ":" + key(phone, purpose)

	// Two rounds cover the key expiring between SETNX and PTTL.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := r.client.SetNX(ctx, k, time.Now().UTC().Unix(), r.cooldown).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("ratelimit: setnx: %w", err)
		}
		if ok {
			return Decision{Allowed: true}, nil
		}
		ttl, err := r.client.PTTL(ctx, k).Result()
		if err != nil {
			return Decision{}, fmt.Errorf("ratelimit: pttl: %w", err)
		}
		switch {
		case ttl > 0:
			return Decision{Allowed: false, RetryAfter: ttl}, nil
		case ttl == -1:
			// Key without expiry; restore the window rather than block forever.
			if err := r.client.PExpire(ctx, k, r.cooldown).Err(); err != nil {
				return Decision{}, fmt.Errorf("ratelimit: pexpire: %w", err)
			}
			return Decision{Allowed: false, RetryAfter: r.cooldown}, nil
		}
	}
	return Decision{Allowed: false, RetryAfter: time.Second}, nil
}
