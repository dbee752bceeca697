package main

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"itsec/affine"
	"itsec/cryptanalysis"
	"itsec/mitm"
	"itsec/modes"
	"itsec/modmath"
)

func newDemoCmd(a *app) *cobra.Command {
	var skipMITM bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the worked answers of every exercise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := []func(*app) error{
				demoInverses,
				demoAffine,
				demoCrack,
				demoAES,
				func(a *app) error { return compareModes(a, repeatedMessage) },
				func(a *app) error { return runOracle(a, "Secret message!") },
			}
			if !skipMITM {
				steps = append(steps, func(a *app) error {
					return runMITM(cmd.Context(), a, mitm.SheetPairs(), 0)
				})
			}

			for _, step := range steps {
				if err := step(a); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipMITM, "skip-mitm", false, "leave out the meet-in-the-middle search")

	return cmd
}

func demoInverses(a *app) error {
	a.out.Section("Modular inverses")

	for _, m := range []int64{11, 12, 13} {
		trial, errTrial := modmath.InverseTrial(5, m)
		ext, errExt := modmath.InverseExtended(5, m)

		switch {
		case errors.Is(errTrial, modmath.ErrNonInvertible) && errors.Is(errExt, modmath.ErrNonInvertible):
			a.out.Result(true, "5⁻¹ mod %d: none, gcd(5, %d) = %d", m, m, modmath.GCD(5, m))
		case errTrial != nil:
			return errTrial
		case errExt != nil:
			return errExt
		default:
			a.out.Result(trial == ext, "5⁻¹ mod %d = %d (trial %d, extended %d)", m, ext, trial, ext)
		}
	}

	r, err := modmath.ModExp(2, 10, 1000)
	if err != nil {
		return err
	}
	a.out.Linef("2^10 mod 1000 = %d", r)
	return nil
}

func demoAffine(a *app) error {
	a.out.Section("Affine cipher")

	key := affine.Key{A: 5, B: 3}
	ct, err := affine.Encrypt("HELLO", key)
	if err != nil {
		return err
	}
	pt, err := affine.Decrypt(ct, key)
	if err != nil {
		return err
	}
	a.out.KV("key", key)
	a.out.Result(pt == "HELLO", "HELLO -> %s -> %s", ct, pt)

	pt, err = affine.Decrypt("AAZZQ", key)
	if err != nil {
		return err
	}
	back, err := affine.Encrypt(pt, key)
	if err != nil {
		return err
	}
	a.out.Result(back == "AAZZQ", "AAZZQ decrypts to %s and encrypts back to %s", pt, back)

	_, err = affine.Encrypt("HELLO", affine.Key{A: 4, B: 3})
	a.out.Result(errors.Is(err, affine.ErrInvalidKey), "key (a=4, b=3) rejected: %v", err)
	return nil
}

func demoCrack(a *app) error {
	cand, err := cryptanalysis.Break(cryptanalysis.SheetCiphertext, cryptanalysis.DefaultAssumption)
	printFrequencies(a, cand.Frequencies, 5)
	if err != nil {
		return fmt.Errorf("crack: %w", err)
	}

	a.out.Section("Frequency attack")
	a.out.KV("ciphertext", cryptanalysis.SheetCiphertext)
	a.out.KV("assumption", cryptanalysis.DefaultAssumption)
	a.out.KV("key", cand.Key)
	a.out.KV("plaintext", cand.Plaintext)
	return nil
}

func demoAES(a *app) error {
	a.out.Section("AES-ECB")

	c, err := modes.NewAES(modes.KeyFromString(sheetKey), modes.ECB, nil)
	if err != nil {
		return err
	}
	const plaintext = "Dies ist ein Test"
	ct, err := c.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return err
	}
	pt, err := c.Decrypt(ct, nil)
	if err != nil {
		return err
	}

	a.out.KV("key", sheetKey)
	a.out.KV("ciphertext", hex.EncodeToString(ct))
	a.out.Result(string(pt) == plaintext, "round trip %q", pt)
	return nil
}
