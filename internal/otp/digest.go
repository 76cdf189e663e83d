package otp

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"

	"phoneauth/internal/domain"
)

// Digester turns a code into the value persisted in verification_codes.code_hash.
// The digest is keyed and bound to phone and purpose, so a leaked row can
// neither be reversed offline nor replayed for another number.
type Digester struct {
	key []byte
}

// NewDigester builds a digester from the configured pepper. An empty pepper
// yields a random per-process key; the second return value reports that case.
func NewDigester(pepper string) (*Digester, bool, error) {
	if pepper != "" {
		key := []byte(pepper)
		if len(key) > blake2b.Size {
			sum := blake2b.Sum256(key)
			key = sum[:]
		}
		return &Digester{key: key}, false, nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, err
	}
	return &Digester{key: key}, true, nil
}

func (d *Digester) Digest(phone string, purpose domain.Purpose, code string) (string, error) {
	if d == nil || len(d.key) == 0 {
		return "", errors.New("otp: digester not initialised")
	}
	h, err := blake2b.New256(d.key)
	if err != nil {
		return "", err
	}
	h.Write([]byte(phone))
	h.Write([]byte{0})
	h.Write([]byte(purpose))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil)), nil
}
