package random

import (
	crand "crypto/rand"
	"errors"
	"math/big"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var errLength = errors.New("length must be positive")

// String returns length characters drawn from [0-9A-Za-z] using crypto/rand.
func String(length int) (string, error) {
	if length <= 0 {
		return "", errLength
	}

	l := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// MustString is String for package initialization.
func MustString(length int) string {
	s, err := String(length)
	if err != nil {
		panic(err)
	}
	return s
}
