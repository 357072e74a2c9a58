package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher abstracts the digest scheme used for stored secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// NewPasswordHasher selects the hasher for the configured scheme. The sha256
// scheme matches digests produced by the legacy desktop client; anything
// unrecognized falls back to it for the same reason.
func NewPasswordHasher(scheme string) PasswordHasher {
	if scheme == "bcrypt" {
		return bcryptHasher{}
	}
	return sha256Hasher{}
}

// sha256Hasher reproduces the original single-round hex digest scheme.
type sha256Hasher struct{}

func (sha256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (sha256Hasher) Compare(hash, password string) bool {
	sum := sha256.Sum256([]byte(password))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(hash), []byte(digest)) == 1
}

type bcryptHasher struct{}

func (bcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (bcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
