package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type HS256Signer struct {
	key []byte
}

func NewHS256Signer(secret string) (*HS256Signer, error) {
	if secret == "" {
		return nil, errors.New("session: empty HS256 signing key")
	}
	return &HS256Signer{key: []byte(secret)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

func (s *HS256Signer) Sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *HS256Signer) Parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{s.Alg()}))
	claims := &Claims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
