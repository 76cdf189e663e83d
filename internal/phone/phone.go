// Package phone normalizes and validates the mobile numbers accounts are keyed by.
package phone

import (
	"regexp"
	"strings"

	"phoneauth/internal/domain"
)

var mobileRegex = regexp.MustCompile(`^1[3-9][0-9]{9}$`)

// Normalize strips formatting and the +86/0086 country prefix and returns the
// 11-digit local number, or domain.ErrInvalidPhone.
func Normalize(raw string) (string, error) {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '\t':
			return -1
		}
		return r
	}, raw)
	switch {
	case strings.HasPrefix(s, "+86"):
		s = s[3:]
	case strings.HasPrefix(s, "0086"):
		s = s[4:]
	}
	if !mobileRegex.MatchString(s) {
		return "", domain.ErrInvalidPhone
	}
	return s, nil
}

// Mask hides the middle digits for log output: 13812345678 -> 138****5678.
func Mask(p string) string {
	if len(p) < 7 {
		return strings.Repeat("*", len(p))
	}
	return p[:3] + strings.Repeat("*", len(p)-7) + p[len(p)-4:]
}
