package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Used for tokens read from the
// terminal once they have been stored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// IsKnownKey reports whether key is one of the fixed storage keys.
func IsKnownKey(key string) bool {
	switch key {
	case KeyAccessToken, KeyRefreshToken, KeyPhoneNumber:
		return true
	}
	return false
}
