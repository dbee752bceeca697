package main

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"itsec/modmath"
)

func newInverseCmd(a *app) *cobra.Command {
	var (
		method            string
		useBig, constTime bool
	)

	cmd := &cobra.Command{
		Use:   "inverse A M",
		Short: "Modular inverse of A mod M",
		Long: `Inverse finds x with A*x = 1 (mod M). The trial method tests every candidate
and runs in O(M); the extended method uses the extended Euclidean algorithm.

Example:
  itsec inverse 5 11
  itsec inverse 17 101 --method both`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if useBig || constTime {
				return bigInverse(a, args[0], args[1], useBig, constTime)
			}

			x, err := parseInt64("A", args[0])
			if err != nil {
				return err
			}
			m, err := parseInt64("M", args[1])
			if err != nil {
				return err
			}

			var methods []modmath.Method
			if method == "both" {
				methods = []modmath.Method{modmath.Trial, modmath.Extended}
			} else {
				mth, err := modmath.ParseMethod(method)
				if err != nil {
					return err
				}
				methods = []modmath.Method{mth}
			}

			a.out.Section(fmt.Sprintf("%d⁻¹ mod %d", x, m))
			for _, mth := range methods {
				start := time.Now()
				inv, err := modmath.InverseWith(mth, x, m)
				elapsed := time.Since(start)
				a.log.Debug("inverse", "method", mth, "a", x, "m", m, "elapsed", elapsed)

				switch {
				case errors.Is(err, modmath.ErrNonInvertible):
					a.out.Result(false, "%s: no inverse, gcd(%d, %d) = %d", mth, x, m, modmath.GCD(x, m))
				case err != nil:
					return err
				default:
					a.out.Result(true, "%s: %d (%s)", mth, inv, elapsed)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "extended", "trial, extended or both")
	cmd.Flags().BoolVar(&useBig, "big", false, "use arbitrary-precision integers (extended method)")
	cmd.Flags().BoolVar(&constTime, "constant-time", false, "use constant-time arithmetic (odd modulus)")

	return cmd
}

func bigInverse(a *app, sx, sm string, useBig, constTime bool) error {
	x, err := parseBig("A", sx)
	if err != nil {
		return err
	}
	m, err := parseBig("M", sm)
	if err != nil {
		return err
	}

	type variant struct {
		name string
		fn   func(x, m *big.Int) (*big.Int, error)
	}
	var variants []variant
	if useBig {
		variants = append(variants, variant{"big", modmath.InverseBig})
	}
	if constTime {
		variants = append(variants, variant{"constant-time", modmath.InverseNat})
	}

	a.out.Section(fmt.Sprintf("%s⁻¹ mod %s", x, m))
	for _, v := range variants {
		inv, err := v.fn(x, m)
		switch {
		case errors.Is(err, modmath.ErrNonInvertible):
			a.out.Result(false, "%s: no inverse", v.name)
		case err != nil:
			return fmt.Errorf("%s: %w", v.name, err)
		default:
			a.out.Result(true, "%s: %s", v.name, inv)
		}
	}
	return nil
}

func newModExpCmd(a *app) *cobra.Command {
	var useBig, constantTime bool

	cmd := &cobra.Command{
		Use:   "modexp BASE EXP MOD",
		Short: "BASE^EXP mod MOD by square-and-multiply",
		Long: `Modexp computes modular powers. Without flags the operands must fit in 64 bits.
--big lifts that limit, --constant-time uses constant-time arithmetic (odd moduli only).

Example:
  itsec modexp 2 10 1000
  itsec modexp 3 170141183460469231731687303715884105726 170141183460469231731687303715884105727 --constant-time`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !useBig && !constantTime {
				base, err := parseInt64("BASE", args[0])
				if err != nil {
					return err
				}
				exp, err := parseInt64("EXP", args[1])
				if err != nil {
					return err
				}
				m, err := parseInt64("MOD", args[2])
				if err != nil {
					return err
				}

				r, err := modmath.ModExp(base, exp, m)
				if err != nil {
					return err
				}
				a.out.Linef("%d^%d mod %d = %d", base, exp, m, r)
				return nil
			}

			base, err := parseBig("BASE", args[0])
			if err != nil {
				return err
			}
			exp, err := parseBig("EXP", args[1])
			if err != nil {
				return err
			}
			m, err := parseBig("MOD", args[2])
			if err != nil {
				return err
			}

			type variant struct {
				name string
				fn   func(base, exp, m *big.Int) (*big.Int, error)
			}
			var variants []variant
			if useBig {
				variants = append(variants, variant{"big", modmath.ModExpBig})
			}
			if constantTime {
				variants = append(variants, variant{"constant-time", modmath.ModExpNat})
			}

			for _, v := range variants {
				start := time.Now()
				r, err := v.fn(base, exp, m)
				if err != nil {
					return fmt.Errorf("%s: %w", v.name, err)
				}
				a.log.Debug("modexp", "variant", v.name, "elapsed", time.Since(start))
				a.out.Linef("%s^%s mod %s = %s", base, exp, m, r)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&useBig, "big", false, "use arbitrary-precision integers")
	cmd.Flags().BoolVar(&constantTime, "constant-time", false, "use constant-time arithmetic (odd modulus)")

	return cmd
}
