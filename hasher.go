package accounts

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DigestIterations is the iteration count of the legacy message-digest
// scheme. Ten rounds of SHA-512 matches the encoder the account data was
// originally hashed with.
const DigestIterations = 10

// PasswordHasher derives and verifies password hashes. The salt is the
// per-account value fixed at creation; schemes that embed their own salt
// (bcrypt) may ignore it.
type PasswordHasher interface {
	Hash(password, salt string) (string, error)
	Compare(password, salt, hash string) error
}

// MessageDigestHasher is the legacy salted SHA-512 scheme: the digest of
// "password{salt}" re-hashed Iterations times and base64 encoded. It stays
// byte compatible with hashes produced by the legacy encoder.
type MessageDigestHasher struct {
	// Iterations defaults to DigestIterations when zero
	Iterations int
}

var _ PasswordHasher = MessageDigestHasher{}

// Hash derives the salted digest for the given password
func (m MessageDigestHasher) Hash(password, salt string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	iterations := m.Iterations
	if iterations <= 0 {
		iterations = DigestIterations
	}

	salted := mergePasswordAndSalt(password, salt)

	sum := sha512.Sum512([]byte(salted))
	digest := sum[:]
	for i := 1; i < iterations; i++ {
		sum = sha512.Sum512(append(digest, salted...))
		digest = sum[:]
	}

	return base64.StdEncoding.EncodeToString(digest), nil
}

// Compare recomputes the digest and compares it in constant time
func (m MessageDigestHasher) Compare(password, salt, hash string) error {
	candidate, err := m.Hash(password, salt)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) != 1 {
		return ErrMismatchedHashAndPassword
	}

	return nil
}

// the legacy encoder merges as password{salt}; an empty salt means the
// password is digested bare
func mergePasswordAndSalt(password, salt string) string {
	if salt == "" {
		return password
	}
	return password + "{" + salt + "}"
}

// BcryptHasher hashes with bcrypt, the scheme preferred for new
// deployments. bcrypt embeds its own salt so the account salt is unused.
type BcryptHasher struct {
	// Cost defaults to bcrypt.DefaultCost when zero
	Cost int
}

var _ PasswordHasher = BcryptHasher{}

// Hash generates a bcrypt hash for the password
func (b BcryptHasher) Hash(password, _ string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := b.Cost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(h), err
}

// Compare validates the given cleartext against the stored bcrypt hash
func (b BcryptHasher) Compare(password, _, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// NewSalt generates a per-account salt. Fixed at creation, never reused
// across accounts.
func NewSalt() string {
	return randomToken()
}

// NewConfirmationCode generates an opaque confirmation token. It is a
// lookup key, not a cryptographic commitment.
func NewConfirmationCode() string {
	return randomToken()
}

// RandomPassword returns a throwaway password for accounts created
// without one
func RandomPassword() string {
	return uuid.NewString()
}

func randomToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
