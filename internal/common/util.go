package common

import "crypto/rand"

// GenerateRandByteArray returns size bytes from crypto/rand. It panics if
// the system random source fails, which crypto/rand already treats as fatal.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
