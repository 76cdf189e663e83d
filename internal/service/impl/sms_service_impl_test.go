package impl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"phoneauth/internal/domain"
)

func TestSevenSMSServicePostsForm(t *testing.T) {
	var (
		gotKey  string
		gotTo   string
		gotText string
		gotFrom string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotKey = r.Header.Get("X-Api-Key")
		gotTo = r.PostForm.Get("to")
		gotText = r.PostForm.Get("text")
		gotFrom = r.PostForm.Get("from")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSevenSMSService("api-key", "PhoneAuth", srv.URL)
	if err := s.SendCode(context.Background(), "13812345678", "482913", domain.PurposeRegister, 5*time.Minute); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotKey != "api-key" || gotTo != "+8613812345678" || gotFrom != "PhoneAuth" {
		t.Fatalf("unexpected request: key=%q to=%q from=%q", gotKey, gotTo, gotFrom)
	}
	if !strings.Contains(gotText, "482913") || !strings.Contains(gotText, "register") || !strings.Contains(gotText, "5 minutes") {
		t.Fatalf("unexpected text: %q", gotText)
	}
}

func TestSevenSMSServiceReportsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSevenSMSService("bad-key", "", srv.URL)
	if err := s.SendCode(context.Background(), "13812345678", "482913", domain.PurposeLogin, time.Minute); !errors.Is(err, ErrSMSDelivery) {
		t.Fatalf("expected ErrSMSDelivery, got %v", err)
	}

	if err := (&SevenSMSService{}).SendCode(context.Background(), "13812345678", "1", domain.PurposeLogin, time.Minute); !errors.Is(err, ErrSMSMisconfigured) {
		t.Fatalf("expected ErrSMSMisconfigured, got %v", err)
	}
}

func TestLogSMSServiceNeverFails(t *testing.T) {
	if err := (LogSMSService{}).SendCode(context.Background(), "13812345678", "482913", domain.PurposeLogin, time.Minute); err != nil {
		t.Fatalf("log sender: %v", err)
	}
}
