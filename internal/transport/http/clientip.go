package http

import (
	"net"
	"net/http"
	"net/netip"
	"unicode/utf8"
)

const maxUserAgentRunes = 256

// clientIP returns the canonical caller address without port or zone.
// chi's RealIP has already folded X-Forwarded-For / X-Real-IP into RemoteAddr.
func clientIP(r *http.Request) string {
	if ip, ok := normalizeIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}

func clientIPKey(r *http.Request) (string, error) {
	return clientIP(r), nil
}

func normalizeIP(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if ap, err := netip.ParseAddrPort(raw); err == nil {
		return ap.Addr().WithZone("").Unmap().String(), true
	}
	host := raw
	if h, _, err := net.SplitHostPort(raw); err == nil {
		host = h
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").Unmap().String(), true
	}
	return raw, false
}

func truncateUserAgent(ua string) string {
	if utf8.RuneCountInString(ua) <= maxUserAgentRunes {
		return ua
	}
	runes := []rune(ua)
	return string(runes[:maxUserAgentRunes])
}
