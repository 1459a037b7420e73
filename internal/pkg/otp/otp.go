// Package otp generates and digests the one-time codes used for password
// recovery.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// codeSpan is the number of valid 6-digit codes, [100000, 999999].
const codeSpan = 900000

// NewCode returns a 6-digit numeric code drawn uniformly from
// [100000, 999999] using crypto/rand.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Digest returns the sha256 hex digest of a code. Only the digest is ever
// stored; the plaintext code goes out by email and is then discarded.
func Digest(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
