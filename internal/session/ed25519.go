package session

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Ed25519Signer issues EdDSA tokens and publishes its public key as a JWK.
type Ed25519Signer struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
	KeyID   string
}

// NewEd25519FromBase64 creates a signer from base64-encoded ed25519 private key bytes.
// If privB64 is empty, it generates an ephemeral key (good for local dev).
func NewEd25519FromBase64(privB64, kid string) (*Ed25519Signer, error) {
	var priv ed25519.PrivateKey
	if privB64 == "" {
		_, generated, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		priv = generated
	} else {
		raw, err := base64.StdEncoding.DecodeString(privB64)
		if err != nil {
			return nil, fmt.Errorf("session: decode ed25519 key: %w", err)
		}
		if len(raw) != ed25519.PrivateKeySize {
			return nil, errors.New("session: invalid ed25519 private key size")
		}
		priv = ed25519.PrivateKey(raw)
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &Ed25519Signer{private: priv, public: pub, KeyID: kid}, nil
}

func (s *Ed25519Signer) Alg() string { return jwt.SigningMethodEdDSA.Alg() }

func (s *Ed25519Signer) Sign(claims *Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.KeyID
	return t.SignedString(s.private)
}

func (s *Ed25519Signer) Parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{s.Alg()}))
	claims := &Claims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if kid, _ := t.Header["kid"].(string); kid != "" && kid != s.KeyID {
			return nil, fmt.Errorf("unknown kid %q", kid)
		}
		return s.public, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PublicJWK renders the public part as JWK for JWKS endpoint.
func (s *Ed25519Signer) PublicJWK() map[string]any {
	return map[string]any{
		"kty": "OKP",
		"crv": "Ed25519",
		"alg": "EdDSA",
		"use": "sig",
		"kid": s.KeyID,
		"x":   base64.RawURLEncoding.EncodeToString(s.public),
	}
}
