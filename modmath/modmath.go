// Package modmath implements exact modular arithmetic on integers: gcd,
// the extended Euclidean algorithm, modular inverses and square-and-multiply
// exponentiation.
package modmath

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrNonInvertible is returned when gcd(a, m) != 1.
	ErrNonInvertible = errors.New("no modular inverse exists")
	ErrModulus       = errors.New("modulus must be positive")
	ErrExponent      = errors.New("exponent must not be negative")
)

// reduce maps a into [0, m).
func reduce(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// mulMod computes a*b mod m for a, b in [0, m) without overflowing.
func mulMod(a, b, m int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	_, rem := bits.Div64(hi, lo, uint64(m))
	return int64(rem)
}

// GCD returns the greatest common divisor of a and b. The result is never negative.
func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// ExtendedGCD returns (g, x, y) with a*x + b*y = g = gcd(a, b).
func ExtendedGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}

	g, x1, y1 := ExtendedGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}

// ExtendedGCDIterative is ExtendedGCD without recursion.
func ExtendedGCDIterative(a, b int64) (g, x, y int64) {
	oldR, r := a, b
	oldS, s := int64(1), int64(0)
	oldT, t := int64(0), int64(1)

	// r is the remainder, s and t the coefficients of a and b
	for r != 0 {
		q := oldR / r
		oldR, r = r, oldR-q*r
		oldS, s = s, oldS-q*s
		oldT, t = t, oldT-q*t
	}

	return oldR, oldS, oldT
}

// InverseTrial finds a⁻¹ mod m by testing every candidate 1..m-1.
//
// It runs in O(m) and is kept that way on purpose: it is the baseline that
// InverseExtended is measured against. The gcd is checked first so a
// non-invertible input never triggers a full scan. For m = 1 the inverse is 0.
func InverseTrial(a, m int64) (int64, error) {
	if m < 1 {
		return 0, fmt.Errorf("inverse of %d mod %d: %w", a, m, ErrModulus)
	}

	a = reduce(a, m)
	if GCD(a, m) != 1 {
		return 0, fmt.Errorf("inverse of %d mod %d: %w", a, m, ErrNonInvertible)
	}
	if m == 1 {
		return 0, nil
	}

	for x := int64(1); x < m; x++ {
		if mulMod(a, x, m) == 1 {
			return x, nil
		}
	}

	return 0, fmt.Errorf("inverse of %d mod %d: %w", a, m, ErrNonInvertible)
}

// InverseExtended finds a⁻¹ mod m with the extended Euclidean algorithm.
func InverseExtended(a, m int64) (int64, error) {
	if m < 1 {
		return 0, fmt.Errorf("inverse of %d mod %d: %w", a, m, ErrModulus)
	}

	a = reduce(a, m)
	g, x, _ := ExtendedGCD(a, m)
	if g != 1 {
		return 0, fmt.Errorf("inverse of %d mod %d: gcd is %d: %w", a, m, g, ErrNonInvertible)
	}

	return reduce(x, m), nil
}

// Inverse is the inverse used by the rest of the module.
func Inverse(a, m int64) (int64, error) {
	return InverseExtended(a, m)
}

// ModExp returns base^exp mod m by square-and-multiply.
//
// exp = 0 always yields 1, including for m = 1.
func ModExp(base, exp, m int64) (int64, error) {
	if m < 1 {
		return 0, fmt.Errorf("modexp mod %d: %w", m, ErrModulus)
	}
	if exp < 0 {
		return 0, fmt.Errorf("modexp exponent %d: %w", exp, ErrExponent)
	}
	if exp == 0 {
		return 1, nil
	}

	result := reduce(1, m)
	b := reduce(base, m)
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, b, m)
		}
		exp >>= 1
		b = mulMod(b, b, m)
	}

	return result, nil
}
