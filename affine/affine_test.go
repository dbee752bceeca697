package affine

import (
	"errors"
	"strings"
	"testing"

	"itsec/modmath"
)

func TestEncryptKnownValues(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		key       Key
		want      string
	}{
		{name: "hello", plaintext: "HELLO", key: Key{5, 3}, want: "MXGGV"},
		{name: "mixed case and punctuation", plaintext: "Hello, World!", key: Key{7, 11}, want: "INKKF, JFAKG!"},
		{name: "identity", plaintext: "abc xyz", key: Key{1, 0}, want: "ABC XYZ"},
		{name: "shift only", plaintext: "XYZ", key: Key{1, 3}, want: "ABC"},
		{name: "empty", plaintext: "", key: Key{5, 3}, want: ""},
		{name: "no letters", plaintext: "123 -!?", key: Key{5, 3}, want: "123 -!?"},
		{name: "key out of range", plaintext: "HELLO", key: Key{31, 29}, want: "MXGGV"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encrypt(tt.plaintext, tt.key)
			if err != nil {
				t.Fatalf("Encrypt error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Encrypt(%q, %v) = %q, want %q", tt.plaintext, tt.key, got, tt.want)
			}
		})
	}
}

func TestHelloRoundTrip(t *testing.T) {
	ct, err := Encrypt("HELLO", Key{5, 3})
	if err != nil {
		t.Fatal(err)
	}
	pt, err := Decrypt(ct, Key{5, 3})
	if err != nil {
		t.Fatal(err)
	}
	if ct != "MXGGV" || pt != "HELLO" {
		t.Errorf("HELLO -> %q -> %q", ct, pt)
	}
}

// AAZZQ maps two different letters to A, so no key produces it from HELLO;
// it still has to survive decrypt then encrypt.
func TestAAZZQRoundTrip(t *testing.T) {
	key := Key{5, 3}
	pt, err := Decrypt("AAZZQ", key)
	if err != nil {
		t.Fatal(err)
	}
	if pt != "PPUUN" {
		t.Errorf("Decrypt(AAZZQ) = %q, want PPUUN", pt)
	}
	ct, err := Encrypt(pt, key)
	if err != nil {
		t.Fatal(err)
	}
	if ct != "AAZZQ" {
		t.Errorf("Encrypt(%q) = %q, want AAZZQ", pt, ct)
	}
}

func TestEncryptRejectsInvalidKey(t *testing.T) {
	for _, a := range []int{0, 2, 4, 13, 26} {
		got, err := Encrypt("HELLO", Key{a, 3})
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Encrypt with a=%d error = %v, want ErrInvalidKey", a, err)
		}
		if got != "" {
			t.Errorf("Encrypt with a=%d produced partial output %q", a, got)
		}
	}
}

func TestDecryptRejectsInvalidKey(t *testing.T) {
	_, err := Decrypt("MXGGV", Key{4, 3})
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Decrypt error = %v, want ErrInvalidKey", err)
	}
	if !errors.Is(err, modmath.ErrNonInvertible) {
		t.Errorf("Decrypt error = %v, want it to wrap modmath.ErrNonInvertible", err)
	}
}

func TestRoundTripAllKeys(t *testing.T) {
	inputs := []string{
		"THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG",
		"attack at dawn, 0600 hours!",
		"Grüße aus Köln",
		"",
		"\t\n",
	}

	for _, key := range ValidKeys() {
		for _, in := range inputs {
			ct, err := Encrypt(in, key)
			if err != nil {
				t.Fatalf("Encrypt(%q, %v): %v", in, key, err)
			}
			pt, err := Decrypt(ct, key)
			if err != nil {
				t.Fatalf("Decrypt(%q, %v): %v", ct, key, err)
			}
			if want := upperASCII(in); pt != want {
				t.Fatalf("round trip %v: got %q, want %q", key, pt, want)
			}
		}
	}
}

func upperASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}, s)
}

func TestValidKeys(t *testing.T) {
	keys := ValidKeys()
	if len(keys) != 312 {
		t.Fatalf("len(ValidKeys()) = %d, want 312", len(keys))
	}
	for _, k := range keys {
		if err := k.Validate(); err != nil {
			t.Errorf("ValidKeys returned unusable key %v", k)
		}
	}
}

func TestNewKey(t *testing.T) {
	k, err := NewKey(-21, 55)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if k != (Key{5, 3}) {
		t.Errorf("NewKey(-21, 55) = %v, want (5, 3)", k)
	}
	if _, err := NewKey(13, 0); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("NewKey(13, 0) error = %v, want ErrInvalidKey", err)
	}
}

func TestIndexAndLetter(t *testing.T) {
	for i := 0; i < AlphabetSize; i++ {
		upper, lower := rune('A'+i), rune('a'+i)
		if n, ok := Index(upper); !ok || n != i {
			t.Errorf("Index(%q) = %d, %v", upper, n, ok)
		}
		if n, ok := Index(lower); !ok || n != i {
			t.Errorf("Index(%q) = %d, %v", lower, n, ok)
		}
		if Letter(i) != upper || Letter(i+AlphabetSize) != upper || Letter(i-AlphabetSize) != upper {
			t.Errorf("Letter(%d) mismatch", i)
		}
	}
	for _, r := range []rune{'@', '[', '`', '{', '0', 'ß', 'Ä'} {
		if _, ok := Index(r); ok {
			t.Errorf("Index(%q) reported a letter", r)
		}
	}
}
