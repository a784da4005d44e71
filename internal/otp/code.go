// Package otp issues and verifies one-time registration codes.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// DefaultLength is used when a non-positive length is requested.
const DefaultLength = 6

// Generate returns a numeric code of the given length. The first digit is
// never zero so the code survives clients that post it as a number.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	code := make([]byte, length)
	for i := range code {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		code[i] = byte('0' + lo + n.Int64())
	}
	return string(code), nil
}

// Validate reports whether given matches expected in constant time.
func Validate(expected, given string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
