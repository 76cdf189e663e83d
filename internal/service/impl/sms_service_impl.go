package impl

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"phoneauth/internal/domain"
	"phoneauth/internal/phone"
)

func codeMessage(code string, purpose domain.Purpose, ttl time.Duration) string {
	action := "log in"
	if purpose == domain.PurposeRegister {
		action = "register"
	}
	return fmt.Sprintf("Your code to %s is %s. It expires in %d minutes.", action, code, int(ttl.Round(time.Minute)/time.Minute))
}

// LogSMSService delivers codes by writing them to the log. Development only.
type LogSMSService struct {
	Logger *slog.Logger
}

func (s LogSMSService) SendCode(ctx context.Context, to, code string, purpose domain.Purpose, ttl time.Duration) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "sms delivery (log provider)",
		"phone", phone.Mask(to),
		"purpose", purpose,
		"code", code,
		"ttl_seconds", int64(ttl/time.Second),
	)
	return nil
}

// SevenSMSService posts to the seven.io gateway.
// POST <endpoint>, header X-Api-Key, form to=<E164>&text=<msg>&from=<id>.
type SevenSMSService struct {
	APIKey   string
	From     string
	Endpoint string
	Client   *http.Client
}

func NewSevenSMSService(apiKey, from, endpoint string) *SevenSMSService {
	if endpoint == "" {
		endpoint = "https://gateway.seven.io/api/sms"
	}
	return &SevenSMSService{
		APIKey:   apiKey,
		From:     from,
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SevenSMSService) SendCode(ctx context.Context, to, code string, purpose domain.Purpose, ttl time.Duration) error {
	if s.APIKey == "" {
		return ErrSMSMisconfigured
	}
	form := url.Values{}
	form.Set("to", "+86"+to)
	form.Set("text", codeMessage(code, purpose, ttl))
	if s.From != "" {
		form.Set("from", s.From)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Api-Key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSMSDelivery, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: seven status %d", ErrSMSDelivery, resp.StatusCode)
	}
	return nil
}
