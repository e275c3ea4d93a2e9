package auth

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters for verification-code hashing
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	// Salt is static: codes are six digits with a short TTL, the hash only
	// has to keep plaintext codes out of the database.
	otpSalt = "salon-service-otp-salt-v1"

	dummyCodeHash = "0000000000000000000000000000000000000000000000000000000000000000"
)

// HashCode hashes a verification code with Argon2id for storage.
func HashCode(code string) string {
	hash := argon2.IDKey([]byte(code), []byte(otpSalt), argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return hex.EncodeToString(hash)
}

// VerifyCodeHash compares a submitted code against a stored hash in
// constant time. An empty stored hash still burns a full hash so lookups
// that found nothing are indistinguishable by timing.
func VerifyCodeHash(code, storedHash string) bool {
	actual := HashCode(code)
	if storedHash == "" {
		constantTimeCompareHashes(actual, dummyCodeHash)
		return false
	}
	return constantTimeCompareHashes(actual, storedHash)
}

func constantTimeCompareHashes(a, b string) bool {
	aBytes := []byte(a)
	bBytes := []byte(b)

	// If lengths differ, still do comparison to maintain constant time
	if len(aBytes) != len(bBytes) {
		if len(aBytes) < len(bBytes) {
			aBytes = make([]byte, len(bBytes))
		} else {
			bBytes = make([]byte, len(aBytes))
		}
	}

	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1
}
