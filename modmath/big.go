package modmath

import (
	"fmt"
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// ExtendedGCDBig solves a*x + b*y = gcd(a, b) on arbitrary precision integers.
func ExtendedGCDBig(a, b *big.Int) (g, x, y *big.Int) {
	if b.Sign() == 0 {
		return new(big.Int).Set(a), big.NewInt(1), big.NewInt(0)
	}

	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	for r.Sign() != 0 {
		quotient := new(big.Int).Div(oldR, r)
		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(quotient, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(quotient, s))
		oldT, t = t, new(big.Int).Sub(oldT, new(big.Int).Mul(quotient, t))
	}

	return oldR, oldS, oldT
}

// InverseBig is InverseExtended for *big.Int.
func InverseBig(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("inverse of %s mod %s: %w", a, m, ErrModulus)
	}

	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCDBig(reduced, m)
	if g.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("inverse of %s mod %s: gcd is %s: %w", a, m, g, ErrNonInvertible)
	}

	return x.Mod(x, m), nil
}

// ModExpBig is ModExp for *big.Int.
func ModExpBig(base, exp, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("modexp mod %s: %w", m, ErrModulus)
	}
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("modexp exponent %s: %w", exp, ErrExponent)
	}
	if exp.Sign() == 0 {
		return big.NewInt(1), nil
	}

	result := new(big.Int).Mod(bigOne, m)
	b := new(big.Int).Mod(base, m)
	e := new(big.Int).Set(exp)

	for e.Cmp(bigZero) > 0 {
		if e.Bit(0) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		e.Rsh(e, 1)
		b.Mul(b, b)
		b.Mod(b, m)
	}

	return result, nil
}
