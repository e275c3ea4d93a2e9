package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	hashCost = 12

	// bcrypt silently ignores everything past 72 bytes; rejecting longer
	// input is safer than hashing a truncation of it.
	maxPasswordBytes = 72

	errHashFmt = "failed to hash password: %w"
)

var (
	ErrEmpty   = errors.New("password cannot be empty")
	ErrTooLong = errors.New("password exceeds 72 bytes")
)

// dummyHash is a hash of a throwaway value at the same cost as real
// hashes, used by Burn to equalize timing on the no-account path.
const dummyHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

// Hash derives a bcrypt hash of the password at the service cost.
func Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrEmpty
	}
	if len(password) > maxPasswordBytes {
		return "", ErrTooLong
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf(errHashFmt, err)
	}
	return string(bytes), nil
}

// Verify reports whether the password matches the stored hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Burn spends one full bcrypt comparison against a dummy hash. Login
// paths call it when no credential exists to compare, so unknown and
// known accounts take the same time to reject.
func Burn(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}

// NeedsRehash reports whether the stored hash was produced at a lower
// cost than the service currently uses.
func NeedsRehash(hash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false, fmt.Errorf("failed to read hash cost: %w", err)
	}
	return cost < hashCost, nil
}
