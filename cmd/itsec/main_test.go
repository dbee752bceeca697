package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"itsec/affine"
	"itsec/mitm"
	"itsec/modmath"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()

	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("itsec %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// field returns the value of the first "  key: value" line.
func field(t *testing.T, out, key string) string {
	t.Helper()

	for _, line := range strings.Split(out, "\n") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(line), key+": "); ok {
			return v
		}
	}
	t.Fatalf("no %q line in output:\n%s", key, out)
	return ""
}

func TestCommandOutput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"inverse", []string{"inverse", "5", "11"}, []string{"ok extended: 9 "}},
		{"inverse both", []string{"inverse", "5", "13", "--method", "both"}, []string{"ok trial: 8 ", "ok extended: 8 "}},
		{"no inverse", []string{"inverse", "6", "12", "--method", "both"}, []string{"FAIL trial: no inverse, gcd(6, 12) = 6", "FAIL extended: no inverse"}},
		{"inverse big", []string{"inverse", "17", "101", "--big", "--constant-time"}, []string{"ok big: 6\n", "ok constant-time: 6\n"}},
		{"modexp", []string{"modexp", "2", "10", "1000"}, []string{"2^10 mod 1000 = 24"}},
		{"modexp big", []string{"modexp", "2", "10", "1001", "--big", "--constant-time"}, []string{"2^10 mod 1001 = 23\n2^10 mod 1001 = 23"}},
		{"affine encrypt", []string{"affine", "encrypt", "-a", "5", "-b", "3", "HELLO"}, []string{"MXGGV\n"}},
		{"affine decrypt", []string{"affine", "decrypt", "-a", "7", "-b", "11", "INKKF,", "JFAKG!"}, []string{"HELLO, WORLD!\n"}},
		{"affine keys", []string{"affine", "keys"}, []string{"12 multipliers x 26 shifts = 312 keys"}},
		{"crack", []string{"crack"}, []string{"key: (a=7, b=22)", "LETTER", "SHARE"}},
		{"compare", []string{"aes", "compare"}, []string{"FAIL 1 repeated", "ok 0 repeated"}},
		{"oracle", []string{"oracle", "attack", "at", "dawn"}, []string{`recovered: "attack at dawn"`, "ok plaintext recovered"}},
		{"bench", []string{"aes", "bench", "--iterations", "3", "--size", "64"}, []string{"3 x 64 B", "CTR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustRun(t, tt.args...)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output does not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"bad affine key", []string{"affine", "encrypt", "-a", "4", "HELLO"}, affine.ErrInvalidKey},
		{"decrypt bad affine key", []string{"affine", "decrypt", "-a", "13", "HELLO"}, affine.ErrInvalidKey},
		{"zero modulus", []string{"inverse", "3", "0"}, modmath.ErrModulus},
		{"even constant-time modulus", []string{"modexp", "2", "10", "1000", "--constant-time"}, modmath.ErrEvenModulus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}

	for _, args := range [][]string{
		{"inverse", "x", "11"},
		{"inverse", "5", "11", "--method", "guess"},
		{"crack", "--assume", "E"},
		{"aes", "encrypt", "--mode", "ofb", "text"},
		{"aes", "encrypt", "--key", "short", "text"},
		{"aes", "decrypt", "--mode", "cbc", "00112233445566778899aabbccddeeff"},
		{"mitm", "--pair", "no separator"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("itsec %s: expected an error", strings.Join(args, " "))
		}
	}
}

func TestAESRoundTrip(t *testing.T) {
	for _, mode := range []string{"ecb", "cbc", "ctr"} {
		t.Run(mode, func(t *testing.T) {
			out := mustRun(t, "aes", "encrypt", "--mode", mode, "Dies ist ein Test")

			args := []string{"aes", "decrypt", "--mode", mode, field(t, out, "ciphertext")}
			if mode != "ecb" {
				args = append(args, "--iv", field(t, out, "iv"))
			}
			if got := mustRun(t, args...); got != "Dies ist ein Test\n" {
				t.Errorf("decrypt = %q", got)
			}
		})
	}
}

func TestMITMCustomPair(t *testing.T) {
	const k1, k2 = 0x1234, 0xbeef

	var plaintext [16]byte
	copy(plaintext[:], "Dies ist ein Tes")
	ciphertext, err := mitm.Encrypt(k1, k2, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "mitm", "--workers", "4", "--pair", fmt.Sprintf("%s:%x", plaintext[:], ciphertext))
	if got, want := field(t, out, "keys"), (mitm.KeyPair{K1: k1, K2: k2}).String(); got != want {
		t.Errorf("keys = %q, want %q", got, want)
	}
	if !strings.Contains(out, "ok pair 1 re-encrypts") {
		t.Errorf("missing verification line:\n%s", out)
	}
}

func TestDemo(t *testing.T) {
	out := mustRun(t, "demo", "--skip-mitm")

	for _, want := range []string{
		"ok 5⁻¹ mod 11 = 9",
		"ok 5⁻¹ mod 12 = 5",
		"ok 5⁻¹ mod 13 = 8",
		"ok HELLO -> MXGGV -> HELLO",
		"ok AAZZQ decrypts to PPUUN and encrypts back to AAZZQ",
		"key: (a=7, b=22)",
		"ok plaintext recovered without the key",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output does not contain %q", want)
		}
	}
}
