package cryptanalysis

import (
	"errors"
	"fmt"

	"itsec/affine"
	"itsec/modmath"
)

var (
	// ErrNoSolution means the assumed plaintext letters differ by a value
	// with no inverse mod 26. Retry with another assumption.
	ErrNoSolution       = errors.New("no affine key solves the assumed mapping")
	ErrNotLetter        = errors.New("not an ASCII letter")
	ErrInsufficientText = errors.New("ciphertext needs at least two distinct letters")
)

// Assumption names the plaintext letters the two most frequent ciphertext
// letters are believed to stand for.
type Assumption struct {
	First  rune
	Second rune
}

// DefaultAssumption pairs the top two ciphertext letters with E and T.
var DefaultAssumption = Assumption{First: 'E', Second: 'T'}

func (a Assumption) String() string {
	return string([]rune{a.First, a.Second})
}

// ParseAssumption reads a two-letter string such as "ET".
func ParseAssumption(s string) (Assumption, error) {
	r := []rune(s)
	if len(r) != 2 {
		return Assumption{}, fmt.Errorf("assumption %q: want exactly two letters", s)
	}
	for _, c := range r {
		if _, ok := affine.Index(c); !ok {
			return Assumption{}, fmt.Errorf("assumption %q: %q: %w", s, c, ErrNotLetter)
		}
	}
	return Assumption{First: affine.Letter(index(r[0])), Second: affine.Letter(index(r[1]))}, nil
}

func index(r rune) int {
	n, _ := affine.Index(r)
	return n
}

// SolveKey solves
//
//	c1 = a*p1 + b (mod 26)
//	c2 = a*p2 + b (mod 26)
//
// for (a, b). The returned key is not validated: a may share a factor with 26
// when c1 - c2 is even or a multiple of 13.
func SolveKey(c1, c2, p1, p2 rune) (affine.Key, error) {
	nums := [4]int{}
	for i, r := range []rune{c1, c2, p1, p2} {
		n, ok := affine.Index(r)
		if !ok {
			return affine.Key{}, fmt.Errorf("solve key: %q: %w", r, ErrNotLetter)
		}
		nums[i] = n
	}
	cn1, cn2, pn1, pn2 := nums[0], nums[1], nums[2], nums[3]

	deltaC := mod26(cn1 - cn2)
	deltaP := mod26(pn1 - pn2)

	deltaPInv, err := modmath.Inverse(int64(deltaP), affine.AlphabetSize)
	if err != nil {
		return affine.Key{}, fmt.Errorf("solve key %c%c->%c%c: %w: %w", c1, c2, p1, p2, ErrNoSolution, err)
	}

	a := mod26(deltaC * int(deltaPInv))
	b := mod26(cn1 - a*pn1)
	return affine.Key{A: a, B: b}, nil
}

func mod26(n int) int {
	n %= affine.AlphabetSize
	if n < 0 {
		n += affine.AlphabetSize
	}
	return n
}

// Candidate is a hypothesised key with the plaintext it yields. Whether the
// plaintext reads as English is left to the caller.
type Candidate struct {
	Key         affine.Key
	Plaintext   string
	Frequencies []LetterCount
}

// Break maps the two most frequent ciphertext letters onto assume and
// decrypts with the resulting key.
//
// When the solved multiplier has no inverse the candidate still carries the
// key and frequencies, and the error matches affine.ErrInvalidKey. No other
// key is tried.
func Break(ciphertext string, assume Assumption) (Candidate, error) {
	freq := FrequencyAnalysis(ciphertext)
	if len(freq) < 2 {
		return Candidate{Frequencies: freq}, ErrInsufficientText
	}

	key, err := SolveKey(freq[0].Letter, freq[1].Letter, assume.First, assume.Second)
	if err != nil {
		return Candidate{Frequencies: freq}, err
	}

	cand := Candidate{Key: key, Frequencies: freq}
	plaintext, err := affine.Decrypt(ciphertext, key)
	if err != nil {
		return cand, fmt.Errorf("candidate key %v: %w", key, err)
	}

	cand.Plaintext = plaintext
	return cand, nil
}
