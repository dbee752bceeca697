package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"itsec/modes"
	"itsec/narrate"
	"itsec/padding"
)

const (
	sheetKey = "einszweidreivier"
	demoKey  = "mysecretkey12345"

	repeatedMessage = "SAME BLOCK HERE!SAME BLOCK HERE!Different block."
)

type aesFlags struct {
	mode    string
	key     string
	iv      string
	padding string
	hex     bool
}

func (f *aesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "ecb", "ecb, cbc or ctr")
	cmd.Flags().StringVar(&f.key, "key", sheetKey, "key text, 16, 24 or 32 bytes")
	cmd.Flags().StringVar(&f.iv, "iv", "", "IV or nonce as hex; random when encrypting without one")
	cmd.Flags().StringVar(&f.padding, "padding", "pkcs7", "pkcs7, ansix923, iso10126 or zero")
	cmd.Flags().BoolVar(&f.hex, "hex", false, "plaintext is hex instead of text")
}

func (f *aesFlags) cipher() (*modes.Cipher, error) {
	mode, err := modes.ParseMode(f.mode)
	if err != nil {
		return nil, err
	}
	pad, err := padding.ByName(f.padding)
	if err != nil {
		return nil, err
	}
	return modes.NewAES(modes.KeyFromString(f.key), mode, pad)
}

func (f *aesFlags) parseIV() ([]byte, error) {
	if f.iv == "" {
		return nil, nil
	}
	iv, err := hex.DecodeString(f.iv)
	if err != nil {
		return nil, fmt.Errorf("parse iv: %w", err)
	}
	return iv, nil
}

func newAESCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aes",
		Short: "AES in ECB, CBC and CTR mode",
		Long: `AES modes of operation. Keys are given as text and used byte for byte, so
"einszweidreivier" is an AES-128 key.

Example:
  itsec aes encrypt "Dies ist ein Test"
  itsec aes encrypt --mode cbc "Dies ist ein Test"
  itsec aes compare`,
	}

	cmd.AddCommand(
		newAESEncryptCmd(a),
		newAESDecryptCmd(a),
		newAESCompareCmd(a),
		newAESBenchCmd(a),
	)

	return cmd
}

func newAESEncryptCmd(a *app) *cobra.Command {
	var f aesFlags

	cmd := &cobra.Command{
		Use:   "encrypt TEXT...",
		Short: "Encrypt TEXT and print the ciphertext as hex",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.cipher()
			if err != nil {
				return err
			}

			plaintext := []byte(strings.Join(args, " "))
			if f.hex {
				if plaintext, err = hex.DecodeString(string(plaintext)); err != nil {
					return fmt.Errorf("parse plaintext: %w", err)
				}
			}

			iv, err := f.parseIV()
			if err != nil {
				return err
			}
			if iv == nil && c.Mode().NeedsIV() {
				if iv, err = modes.GenerateIV(c.BlockSize()); err != nil {
					return err
				}
				a.log.Debug("generated iv", "iv", hex.EncodeToString(iv))
			}

			ciphertext, err := c.Encrypt(plaintext, iv)
			if err != nil {
				return fmt.Errorf("encrypt: %w", err)
			}

			a.out.KV("mode", c.Mode())
			if c.Mode().NeedsIV() {
				a.out.KV("iv", hex.EncodeToString(iv))
			}
			a.out.KV("ciphertext", hex.EncodeToString(ciphertext))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newAESDecryptCmd(a *app) *cobra.Command {
	var f aesFlags

	cmd := &cobra.Command{
		Use:   "decrypt HEX",
		Short: "Decrypt a hex ciphertext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.cipher()
			if err != nil {
				return err
			}

			ciphertext, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("parse ciphertext: %w", err)
			}
			iv, err := f.parseIV()
			if err != nil {
				return err
			}

			plaintext, err := c.Decrypt(ciphertext, iv)
			if err != nil {
				return fmt.Errorf("decrypt: %w", err)
			}

			if f.hex {
				a.out.Linef("%s", hex.EncodeToString(plaintext))
			} else {
				a.out.Linef("%s", plaintext)
			}
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newAESCompareCmd(a *app) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Show how ECB leaks repeated plaintext blocks and CBC does not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compareModes(a, message)
		},
	}

	cmd.Flags().StringVar(&message, "message", repeatedMessage,
		"plaintext to encrypt under both modes")

	return cmd
}

func newAESBenchCmd(a *app) *cobra.Command {
	var iterations, size int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time ECB, CBC and CTR encryption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iterations < 1 || size < 0 {
				return fmt.Errorf("bench: need at least one iteration and a non-negative size")
			}

			key := modes.KeyFromString(demoKey)
			data := bytes.Repeat([]byte("A"), size)

			elapsed := make(map[modes.Mode]time.Duration)
			var rows [][]string
			for _, mode := range []modes.Mode{modes.ECB, modes.CBC, modes.CTR} {
				d, err := benchMode(key, mode, data, iterations)
				if err != nil {
					return err
				}
				elapsed[mode] = d
				a.log.Debug("bench", "mode", mode, "elapsed", d)

				rows = append(rows, []string{
					mode.String(),
					d.Round(time.Microsecond).String(),
					(d / time.Duration(iterations)).String(),
					narrate.Throughput(size*iterations, d),
				})
			}

			a.out.Section(fmt.Sprintf("%s x %s", narrate.Count(iterations), narrate.Size(size)))
			a.out.Table([]string{"MODE", "TOTAL", "PER CALL", "THROUGHPUT"}, rows)
			if ecb := elapsed[modes.ECB]; ecb > 0 {
				a.out.Linef("CBC vs ECB: %+.1f%%", (float64(elapsed[modes.CBC])/float64(ecb)-1)*100)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 1000, "encryptions per mode")
	cmd.Flags().IntVar(&size, "size", 1000, "plaintext bytes per encryption")

	return cmd
}

// compareModes encrypts message under ECB and CBC with the same key and
// reports the repeated ciphertext blocks of each.
func compareModes(a *app, message string) error {
	key := modes.KeyFromString(demoKey)
	plaintext := []byte(message)

	for _, mode := range []modes.Mode{modes.ECB, modes.CBC} {
		c, err := modes.NewAES(key, mode, nil)
		if err != nil {
			return err
		}

		var iv []byte
		if mode.NeedsIV() {
			if iv, err = modes.GenerateIV(c.BlockSize()); err != nil {
				return err
			}
		}
		ciphertext, err := c.Encrypt(plaintext, iv)
		if err != nil {
			return err
		}

		blocks := modes.Blocks(ciphertext, c.BlockSize())
		rows := make([][]string, len(blocks))
		for i, b := range blocks {
			rows[i] = []string{strconv.Itoa(i + 1), hex.EncodeToString(b)}
		}

		a.out.Section(mode.String())
		a.out.Table([]string{"BLOCK", "CIPHERTEXT"}, rows)

		repeats := modes.RepeatedBlocks(ciphertext, c.BlockSize())
		a.out.Result(repeats == 0, "%d repeated ciphertext block(s)", repeats)
	}

	return nil
}

// benchMode encrypts data iterations times. Modes with an IV get a fresh one
// on every call, as a real sender would.
func benchMode(key []byte, mode modes.Mode, data []byte, iterations int) (time.Duration, error) {
	c, err := modes.NewAES(key, mode, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	for n := 0; n < iterations; n++ {
		var iv []byte
		if mode.NeedsIV() {
			if iv, err = modes.GenerateIV(c.BlockSize()); err != nil {
				return 0, err
			}
		}
		if _, err := c.Encrypt(data, iv); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}
