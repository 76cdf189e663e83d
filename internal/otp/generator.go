package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	MinLength     = 4
	MaxLength     = 10
	DefaultLength = 6
)

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
}

// NumericGenerator draws fixed-width, zero-padded decimal codes uniformly from
// a cryptographically secure source.
type NumericGenerator struct {
	length int
	limit  *big.Int
	format string
	rand   io.Reader
}

func NewNumericGenerator(length int) (*NumericGenerator, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("otp: code length %d out of range [%d,%d]", length, MinLength, MaxLength)
	}
	return &NumericGenerator{
		length: length,
		limit:  new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil),
		format: "%0" + strconv.Itoa(length) + "d",
		rand:   rand.Reader,
	}, nil
}

func (g *NumericGenerator) Length() int { return g.length }

func (g *NumericGenerator) Generate() (string, error) {
	n, err := rand.Int(g.rand, g.limit)
	if err != nil {
		return "", fmt.Errorf("otp: read random: %w", err)
	}
	return fmt.Sprintf(g.format, n), nil
}

// FormatValidator reports whether a submitted code has the expected shape.
type FormatValidator struct {
	length int
}

func NewFormatValidator(length int) FormatValidator {
	return FormatValidator{length: length}
}

func (v FormatValidator) Valid(code string) bool {
	if v.length == 0 || len(code) != v.length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
