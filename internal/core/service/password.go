package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Supported password schemes.
const (
	SchemeSHA256 = "sha256"
	SchemeBcrypt = "bcrypt"
)

// PasswordHasher turns plaintext passwords into stored digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// NewPasswordHasher returns the hasher for scheme.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case "", SchemeSHA256:
		return SHA256Hasher{}, nil
	case SchemeBcrypt:
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// SHA256Hasher is the unsalted hex(sha256) scheme. It is deterministic: the same
// input always yields the same digest.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(plain string) (string, error) {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(plain, digest string) bool {
	got, _ := h.Hash(plain)
	return subtle.ConstantTimeCompare([]byte(got), []byte(digest)) == 1
}

// BcryptHasher is the salted, slow scheme.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

func (BcryptHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
