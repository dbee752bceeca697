package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"itsec/affine"
	"itsec/cryptanalysis"
)

func newCrackCmd(a *app) *cobra.Command {
	var (
		assume string
		top    int
	)

	cmd := &cobra.Command{
		Use:   "crack [CIPHERTEXT...]",
		Short: "Break an affine ciphertext by letter frequency",
		Long: `Crack counts the letters of the ciphertext, maps the two most frequent ones onto
the assumed plaintext letters and solves for the key. Whether the result reads as
English is up to you; try another --assume if it does not.

Without arguments the intercepted message from the exercise sheet is used.

Example:
  itsec crack
  itsec crack --assume EA FALSZZTYSYJZYJKYWJRZTYJ`,
		RunE: func(cmd *cobra.Command, args []string) error {
			as, err := cryptanalysis.ParseAssumption(assume)
			if err != nil {
				return err
			}

			ciphertext := cryptanalysis.SheetCiphertext
			if len(args) > 0 {
				ciphertext = strings.Join(args, " ")
			}

			cand, err := cryptanalysis.Break(ciphertext, as)
			printFrequencies(a, cand.Frequencies, top)

			a.out.Section("Key")
			if err != nil {
				if errors.Is(err, affine.ErrInvalidKey) {
					a.out.KV("candidate", cand.Key)
					a.out.Result(false, "%s gives a multiplier with no inverse mod 26", as)
				}
				return fmt.Errorf("crack: %w", err)
			}

			a.out.KV("assumption", as)
			a.out.KV("key", cand.Key)
			a.out.Section("Plaintext")
			a.out.Linef("%s", cand.Plaintext)
			return nil
		},
	}

	cmd.Flags().StringVar(&assume, "assume", cryptanalysis.DefaultAssumption.String(),
		"plaintext letters for the two most frequent ciphertext letters")
	cmd.Flags().IntVar(&top, "top", 5, "frequency rows to show, 0 for all")

	return cmd
}

func printFrequencies(a *app, freq []cryptanalysis.LetterCount, top int) {
	if len(freq) == 0 {
		return
	}

	total := 0
	for _, lc := range freq {
		total += lc.Count
	}
	if top <= 0 || top > len(freq) {
		top = len(freq)
	}

	rows := make([][]string, 0, top)
	for _, lc := range freq[:top] {
		rows = append(rows, []string{
			string(lc.Letter),
			strconv.Itoa(lc.Count),
			fmt.Sprintf("%.1f%%", 100*float64(lc.Count)/float64(total)),
		})
	}

	a.out.Section("Letter frequencies")
	a.out.Table([]string{"LETTER", "COUNT", "SHARE"}, rows)
}
