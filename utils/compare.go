package utils

import "crypto/subtle"

// SecureCompare performs constant-time string comparison to prevent timing
// attacks. This MUST be used when comparing credentials.
//
// Returns true if both strings are equal, false otherwise.
func SecureCompare(a, b string) bool {
	aBytes := []byte(a)
	bBytes := []byte(b)

	// subtle.ConstantTimeCompare returns 1 if equal, 0 otherwise
	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1
}
