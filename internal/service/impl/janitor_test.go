package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"phoneauth/internal/domain"
	"phoneauth/internal/dto"
	"phoneauth/internal/store"
)

func TestCodeJanitorRunOncePurgesAndSweeps(t *testing.T) {
	env := newTestEnv(t, []string{"123456"})
	ctx := context.Background()

	if _, err := env.svc.RequestCode(ctx, dto.SendCodeRequest{Phone: "13812345678", Purpose: "login"}); err != nil {
		t.Fatalf("request code: %v", err)
	}

	j := &CodeJanitor{Codes: env.store.Codes(), Limiter: env.limiter, Clock: env.clock.Now}

	j.RunOnce(ctx)
	if _, err := env.store.Codes().FindActive(ctx, "13812345678", domain.PurposeLogin, env.clock.Now()); err != nil {
		t.Fatalf("expected live code to survive purge, got %v", err)
	}

	env.clock.Advance(301 * time.Second)
	j.RunOnce(ctx)

	var count int64
	if err := env.store.DB.Model(&domain.VerificationCode{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired code to be purged, %d left", count)
	}
	if n := env.limiter.Sweep(env.clock.Now()); n != 0 {
		t.Fatalf("expected limiter entries already swept, %d left", n)
	}
}

func TestCodeJanitorRunStopsOnCancel(t *testing.T) {
	st := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	j := &CodeJanitor{Codes: st.Codes(), Interval: 10 * time.Millisecond}
	go func() {
		j.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("janitor did not stop after cancel")
	}
	if _, err := st.Codes().FindActive(context.Background(), "13812345678", domain.PurposeLogin, time.Now()); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected empty store, got %v", err)
	}
}
