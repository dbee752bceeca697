// Package affine implements the affine substitution cipher over the 26-letter
// Latin alphabet: c = (a*p + b) mod 26.
package affine

import (
	"errors"
	"fmt"
	"strings"

	"itsec/modmath"
)

// AlphabetSize is the modulus of every affine operation.
const AlphabetSize = 26

// ErrInvalidKey is returned when the multiplicative key is not coprime to 26.
var ErrInvalidKey = errors.New("invalid affine key")

// Key is an affine key. A must be coprime to 26 for the key to be usable.
type Key struct {
	A int
	B int
}

// NewKey reduces a and b into [0, 26) and validates the result.
func NewKey(a, b int) (Key, error) {
	k := Key{A: mod26(a), B: mod26(b)}
	if err := k.Validate(); err != nil {
		return Key{}, err
	}
	return k, nil
}

// Validate reports ErrInvalidKey when gcd(A, 26) != 1.
func (k Key) Validate() error {
	if g := modmath.GCD(int64(k.A), AlphabetSize); g != 1 {
		return fmt.Errorf("%w: a=%d shares factor %d with %d", ErrInvalidKey, k.A, g, AlphabetSize)
	}
	return nil
}

func (k Key) String() string {
	return fmt.Sprintf("(a=%d, b=%d)", k.A, k.B)
}

// ValidKeys lists every usable key, multipliers first.
func ValidKeys() []Key {
	keys := make([]Key, 0, 12*AlphabetSize)
	for a := 1; a < AlphabetSize; a++ {
		if modmath.GCD(int64(a), AlphabetSize) != 1 {
			continue
		}
		for b := 0; b < AlphabetSize; b++ {
			keys = append(keys, Key{A: a, B: b})
		}
	}
	return keys
}

func mod26(n int) int {
	n %= AlphabetSize
	if n < 0 {
		n += AlphabetSize
	}
	return n
}

// Index maps an ASCII letter of either case to 0..25.
func Index(r rune) (int, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return int(r - 'A'), true
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), true
	default:
		return 0, false
	}
}

// Letter maps n (taken mod 26) to an uppercase letter.
func Letter(n int) rune {
	return rune('A' + mod26(n))
}

// transform applies f to every letter of text and copies everything else.
func transform(text string, f func(p int) int) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if n, ok := Index(r); ok {
			sb.WriteRune(Letter(f(n)))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Encrypt enciphers the letters of plaintext; output letters are uppercase.
// The key is checked before any character is processed.
func Encrypt(plaintext string, key Key) (string, error) {
	if err := key.Validate(); err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	a, b := mod26(key.A), mod26(key.B)
	return transform(plaintext, func(p int) int {
		return a*p + b
	}), nil
}

// Decrypt reverses Encrypt. The returned error matches both ErrInvalidKey and
// modmath.ErrNonInvertible when A has no inverse mod 26.
func Decrypt(ciphertext string, key Key) (string, error) {
	aInv, err := modmath.Inverse(int64(key.A), AlphabetSize)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w: %w", ErrInvalidKey, err)
	}

	inv, b := int(aInv), mod26(key.B)
	return transform(ciphertext, func(c int) int {
		return inv * (c - b)
	}), nil
}
