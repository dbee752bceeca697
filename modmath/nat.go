package modmath

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
)

// ErrEvenModulus is returned by the constant-time functions, which only
// accept odd moduli.
var ErrEvenModulus = errors.New("constant-time arithmetic needs an odd modulus")

func natModulus(m *big.Int) (*saferith.Modulus, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("modulus %s: %w", m, ErrModulus)
	}
	if m.Bit(0) == 0 {
		return nil, fmt.Errorf("modulus %s: %w", m, ErrEvenModulus)
	}
	return saferith.ModulusFromNat(new(saferith.Nat).SetBig(m, m.BitLen())), nil
}

// toNat reduces x into [0, m) and converts it.
func toNat(x, m *big.Int) *saferith.Nat {
	return new(saferith.Nat).SetBig(new(big.Int).Mod(x, m), m.BitLen())
}

// ModExpNat computes base^exp mod m in constant time with saferith.
func ModExpNat(base, exp, m *big.Int) (*big.Int, error) {
	mod, err := natModulus(m)
	if err != nil {
		return nil, err
	}
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("modexp exponent %s: %w", exp, ErrExponent)
	}
	if exp.Sign() == 0 {
		return big.NewInt(1), nil
	}
	if m.Cmp(bigOne) == 0 {
		return big.NewInt(0), nil
	}

	e := new(saferith.Nat).SetBig(exp, exp.BitLen())
	return new(saferith.Nat).Exp(toNat(base, m), e, mod).Big(), nil
}

// InverseNat computes a⁻¹ mod m in constant time with saferith.
func InverseNat(a, m *big.Int) (*big.Int, error) {
	mod, err := natModulus(m)
	if err != nil {
		return nil, err
	}
	if m.Cmp(bigOne) == 0 {
		return big.NewInt(0), nil
	}

	x := toNat(a, m)
	if x.IsUnit(mod) != 1 {
		return nil, fmt.Errorf("inverse of %s mod %s: %w", a, m, ErrNonInvertible)
	}

	return new(saferith.Nat).ModInverse(x, mod).Big(), nil
}
