package crypt

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// FingerprintSize is the size of a derived key in bytes.
const FingerprintSize = sha256.Size

// Fingerprint is a key derived from a passphrase. The zero value means no
// key has been set.
type Fingerprint [FingerprintSize]byte

// DeriveKey hashes the UTF-8 passphrase with SHA-256, then hashes the
// digest again.
func DeriveKey(passphrase string) Fingerprint {
	first := sha256.Sum256([]byte(passphrase))
	return sha256.Sum256(first[:])
}

// IsZero reports whether f is the unset sentinel.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// Equal compares two fingerprints in constant time.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return subtle.ConstantTimeCompare(f[:], other[:]) == 1
}

// String returns the hex encoding of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint parses a 64-character hex string.
func ParseFingerprint(s string) (Fingerprint, error) {
	var f Fingerprint
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return f, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != FingerprintSize {
		return f, fmt.Errorf("fingerprint is %d bytes, want %d", len(decoded), FingerprintSize)
	}
	copy(f[:], decoded)
	return f, nil
}
