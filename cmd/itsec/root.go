package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"

	"itsec/narrate"
)

// app is the state shared by every subcommand.
type app struct {
	verbose bool
	plain   bool

	out *narrate.Printer
	log *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "itsec",
		Short: "Modular arithmetic, classical ciphers and AES modes of operation",
		Long: `itsec works through the exercises of an IT security course: modular inverses and
exponentiation, the affine cipher and its frequency-based break, AES modes of operation,
a meet-in-the-middle attack on double AES and a CBC padding oracle.

Example:
  itsec inverse 5 11
  itsec crack --assume ET`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			a.out = narrate.New(stdout, a.plain)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug details to stderr")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "never decorate output, even on a terminal")

	root.AddCommand(
		newInverseCmd(a),
		newModExpCmd(a),
		newAffineCmd(a),
		newCrackCmd(a),
		newAESCmd(a),
		newMITMCmd(a),
		newOracleCmd(a),
		newDemoCmd(a),
	)

	return root
}

func parseInt64(name, s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return n, nil
}

func parseBig(name, s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("parse %s %q: not a decimal integer", name, s)
	}
	return n, nil
}
