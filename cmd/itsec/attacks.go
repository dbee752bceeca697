package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"itsec/mitm"
	"itsec/narrate"
	"itsec/oracle"
)

func newMITMCmd(a *app) *cobra.Command {
	var (
		workers int
		timeout time.Duration
		pairs   []string
	)

	cmd := &cobra.Command{
		Use:   "mitm",
		Short: "Meet-in-the-middle attack on double AES with 16-bit keys",
		Long: `Mitm recovers k1 and k2 from C = AES_k2(AES_k1(P)) where both keys are 16 bits.
It needs about 2*2^16 AES operations instead of 2^32.

Without --pair the two known pairs from the exercise sheet are used.

Example:
  itsec mitm --workers 4
  itsec mitm --pair "Das ist ein Test:d011ebb754c1f786b5b8576457c2104e"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			known := mitm.SheetPairs()
			if len(pairs) > 0 {
				known = known[:0]
				for _, s := range pairs {
					plaintext, ciphertext, ok := strings.Cut(s, ":")
					if !ok {
						return fmt.Errorf("pair %q: want PLAINTEXT:HEX", s)
					}
					p, err := mitm.ParsePair(plaintext, ciphertext)
					if err != nil {
						return err
					}
					known = append(known, p)
				}
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			return runMITM(ctx, a, known, workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "goroutines per sweep, 0 for GOMAXPROCS")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long, 0 for no limit")
	cmd.Flags().StringArrayVar(&pairs, "pair", nil, "known pair as PLAINTEXT:HEX, may be repeated")

	return cmd
}

func runMITM(ctx context.Context, a *app, pairs []mitm.Pair, workers int) error {
	a.out.Section("Meet in the middle")
	a.out.KV("key space", narrate.Count(mitm.KeySpace)+" per key")
	for i, p := range pairs {
		a.out.KV(fmt.Sprintf("pair %d", i+1), fmt.Sprintf("%q -> %x", p.Plaintext[:], p.Ciphertext))
	}

	start := time.Now()
	key, err := mitm.Attack(ctx, pairs, mitm.Options{Workers: workers, Logger: a.log})
	if err != nil {
		return fmt.Errorf("mitm: %w", err)
	}
	a.out.KV("keys", key)
	a.out.KV("elapsed", time.Since(start).Round(time.Millisecond))

	for i, p := range pairs {
		got, err := mitm.Encrypt(key.K1, key.K2, p.Plaintext)
		if err != nil {
			return err
		}
		a.out.Result(got == p.Ciphertext, "pair %d re-encrypts to its ciphertext", i+1)
	}
	return nil
}

func newOracleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "oracle [MESSAGE...]",
		Short: "Recover a CBC plaintext from padding errors alone",
		Long: `Oracle encrypts MESSAGE under a random AES key in CBC mode, shows that a tampered
ciphertext is rejected for bad padding, then recovers the whole plaintext using
nothing but that accept/reject answer.

Example:
  itsec oracle "Secret message!"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := "Secret message!"
			if len(args) > 0 {
				message = strings.Join(args, " ")
			}
			return runOracle(a, message)
		},
	}
}

func runOracle(a *app, message string) error {
	server, err := oracle.NewServer()
	if err != nil {
		return err
	}
	ciphertext, iv, err := server.Encrypt([]byte(message))
	if err != nil {
		return err
	}

	a.out.Section("Padding oracle")
	a.out.KV("message", fmt.Sprintf("%q", message))
	a.out.KV("iv", hex.EncodeToString(iv))
	a.out.KV("ciphertext", hex.EncodeToString(ciphertext))

	tampered := bytes.Clone(ciphertext)
	tampered[len(tampered)-1] ^= 0x01
	a.out.Result(!server.ValidPadding(tampered, iv), "ciphertext with its last bit flipped fails padding validation")

	counter := &oracle.CountingChecker{Checker: server}
	start := time.Now()
	recovered, err := oracle.Attack(counter, ciphertext, iv)
	if err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	a.log.Debug("padding oracle attack", "queries", counter.Queries, "elapsed", time.Since(start))

	a.out.KV("recovered", fmt.Sprintf("%q", recovered))
	a.out.KV("oracle queries", narrate.Count(counter.Queries))
	a.out.Result(string(recovered) == message, "plaintext recovered without the key")
	return nil
}
