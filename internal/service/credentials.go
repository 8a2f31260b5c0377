// Package service provides business-logic services for authentication and
// game-progress persistence, delegating storage to repository interfaces.
package service

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the bcrypt cost factor applied to new password digests.
const bcryptCost = 10

// Hasher hashes and verifies passwords with bcrypt. Each digest carries its
// own random salt, the algorithm identifier and the cost factor.
type Hasher struct {
	dummyDigest []byte
}

// NewHasher creates a Hasher. A throwaway digest is precomputed so that
// login attempts for unknown users can burn a comparable amount of time as
// a real verification.
func NewHasher() *Hasher {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("playsave-dummy-password"), bcryptCost)
	return &Hasher{dummyDigest: dummy}
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. It returns false for
// malformed digests rather than failing.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// DummyVerify performs a comparison against the throwaway digest. It is
// called when a login names an unknown user so that the response time does
// not reveal whether the username exists.
func (h *Hasher) DummyVerify() {
	_ = bcrypt.CompareHashAndPassword(h.dummyDigest, []byte("playsave-dummy-password"))
}
