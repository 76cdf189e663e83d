// Package session mints and verifies the signed tokens returned after a
// successful register or login.
package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a session token. Subject is the user id.
type Claims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) { return uuid.Parse(c.Subject) }

// Signer is the signing collaborator: it only turns claims into a token and back.
type Signer interface {
	Alg() string
	Sign(claims *Claims) (string, error)
	Parse(token string, opts ...jwt.ParserOption) (*Claims, error)
}

// KeySet is implemented by signers whose verification key can be published.
type KeySet interface {
	PublicJWK() map[string]any
}
