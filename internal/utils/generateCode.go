package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateVerificationCode returns a uniformly random 6-digit numeric code.
// Leading zeros are permitted, so the result is always exactly 6 characters.
func GenerateVerificationCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken.
		panic(fmt.Sprintf("verification code generation failed: %v", err))
	}
	return fmt.Sprintf("%06d", n.Int64())
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random credential of the given length for
// out-of-band delivery. Ambiguous characters (0/O, 1/l/I) are excluded.
func GeneratePassword(length int) string {
	if length <= 0 {
		length = 12
	}
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("password generation failed: %v", err))
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf)
}
