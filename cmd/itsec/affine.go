package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"itsec/affine"
	"itsec/modmath"
)

func newAffineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "affine",
		Short: "Affine cipher E(p) = (a*p + b) mod 26",
		Long: `Affine cipher over the 26 letters of the Latin alphabet. Letters are upper-cased,
everything else is left as it is. The multiplier a must be coprime with 26.

Example:
  itsec affine encrypt -a 5 -b 3 HELLO
  itsec affine decrypt -a 5 -b 3 MXGGV`,
	}

	cmd.AddCommand(
		newAffineCodecCmd(a, "encrypt", affine.Encrypt),
		newAffineCodecCmd(a, "decrypt", affine.Decrypt),
		newAffineKeysCmd(a),
	)

	return cmd
}

func newAffineCodecCmd(a *app, name string, codec func(string, affine.Key) (string, error)) *cobra.Command {
	var keyA, keyB int

	cmd := &cobra.Command{
		Use:   name + " TEXT...",
		Short: strings.ToUpper(name[:1]) + name[1:] + " TEXT with the key (a, b)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := affine.NewKey(keyA, keyB)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			result, err := codec(text, key)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			a.log.Debug("affine", "op", name, "key", key, "length", len(text))

			a.out.Linef("%s", result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&keyA, "a", "a", 5, "multiplier, coprime with 26")
	cmd.Flags().IntVarP(&keyB, "b", "b", 3, "shift")

	return cmd
}

func newAffineKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the usable multipliers and their inverses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := affine.ValidKeys()

			var rows [][]string
			for _, k := range keys {
				if k.B != 0 {
					continue
				}
				inv, err := modmath.Inverse(int64(k.A), affine.AlphabetSize)
				if err != nil {
					return err
				}
				rows = append(rows, []string{strconv.Itoa(k.A), strconv.FormatInt(inv, 10)})
			}

			a.out.Section("Affine keys")
			a.out.Table([]string{"A", "A⁻¹ MOD 26"}, rows)
			a.out.Linef("%d multipliers x %d shifts = %d keys", len(rows), affine.AlphabetSize, len(keys))
			return nil
		},
	}
}
