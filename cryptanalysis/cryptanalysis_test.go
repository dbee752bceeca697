package cryptanalysis

import (
	"errors"
	"testing"

	"github.com/kr/pretty"

	"itsec/affine"
	"itsec/modmath"
)

func TestFrequencyAnalysisSheetCiphertext(t *testing.T) {
	want := []LetterCount{
		{'Y', 12}, {'Z', 6}, {'J', 6}, {'T', 4},
		{'A', 3}, {'S', 3}, {'R', 3}, {'K', 2}, {'W', 2},
		{'F', 1}, {'L', 1}, {'N', 1}, {'E', 1}, {'G', 1},
	}

	got := FrequencyAnalysis(SheetCiphertext)
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("FrequencyAnalysis mismatch:\n%s", pretty.Sprint(diff))
	}

	total := 0
	for _, row := range got {
		total += row.Count
	}
	if total != len(SheetCiphertext) {
		t.Errorf("counts sum to %d, want %d", total, len(SheetCiphertext))
	}
}

func TestFrequencyAnalysisFoldsCaseAndSkipsNonLetters(t *testing.T) {
	got := FrequencyAnalysis("b, A! a? 7 B... ä c")
	want := []LetterCount{{'B', 2}, {'A', 2}, {'C', 1}}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("FrequencyAnalysis mismatch:\n%s", pretty.Sprint(diff))
	}

	if got := FrequencyAnalysis("123 !?"); len(got) != 0 {
		t.Errorf("FrequencyAnalysis of no letters = %v, want empty", got)
	}
}

func TestSolveKey(t *testing.T) {
	tests := []struct {
		name           string
		c1, c2, p1, p2 rune
		want           affine.Key
	}{
		{name: "sheet top two", c1: 'Y', c2: 'Z', p1: 'E', p2: 'T', want: affine.Key{A: 7, B: 22}},
		{name: "known key", c1: 'C', c2: 'R', p1: 'E', p2: 'H', want: affine.Key{A: 5, B: 8}},
		{name: "lowercase input", c1: 'c', c2: 'z', p1: 'e', p2: 't', want: affine.Key{A: 5, B: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SolveKey(tt.c1, tt.c2, tt.p1, tt.p2)
			if err != nil {
				t.Fatalf("SolveKey error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SolveKey = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSolveKeyRecoversEveryValidKey(t *testing.T) {
	for _, key := range affine.ValidKeys() {
		ct, err := affine.Encrypt("ET", key)
		if err != nil {
			t.Fatal(err)
		}
		r := []rune(ct)
		got, err := SolveKey(r[0], r[1], 'E', 'T')
		if err != nil {
			t.Fatalf("SolveKey for %v: %v", key, err)
		}
		if got != key {
			t.Fatalf("SolveKey recovered %v, want %v", got, key)
		}
	}
}

func TestSolveKeyNoSolution(t *testing.T) {
	for _, p := range [][2]rune{{'A', 'N'}, {'E', 'G'}, {'T', 'T'}} {
		_, err := SolveKey('X', 'Y', p[0], p[1])
		if !errors.Is(err, ErrNoSolution) {
			t.Errorf("SolveKey assuming %c%c error = %v, want ErrNoSolution", p[0], p[1], err)
		}
		if !errors.Is(err, modmath.ErrNonInvertible) {
			t.Errorf("SolveKey assuming %c%c error = %v, want it to wrap ErrNonInvertible", p[0], p[1], err)
		}
	}

	if _, err := SolveKey('X', '1', 'E', 'T'); !errors.Is(err, ErrNotLetter) {
		t.Errorf("SolveKey with digit error = %v, want ErrNotLetter", err)
	}
}

func TestBreakSheetCiphertext(t *testing.T) {
	cand, err := Break(SheetCiphertext, DefaultAssumption)
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if cand.Key != (affine.Key{A: 7, B: 22}) {
		t.Errorf("Break key = %v, want (7, 22)", cand.Key)
	}

	want, err := affine.Decrypt(SheetCiphertext, cand.Key)
	if err != nil {
		t.Fatal(err)
	}
	if cand.Plaintext != want {
		t.Errorf("Break plaintext = %q, want %q", cand.Plaintext, want)
	}
	if cand.Frequencies[0].Letter != 'Y' {
		t.Errorf("top letter = %q, want 'Y'", cand.Frequencies[0].Letter)
	}
}

func TestBreakRecoversKnownPlaintext(t *testing.T) {
	const plaintext = "THEAFFINECIPHERISEASYTOBREAKWITHFREQUENCYANALYSISWHENTHEMESSAGEISLONGENOUGHTHEEIGHTEEN"
	key := affine.Key{A: 5, B: 8}

	ct, err := affine.Encrypt(plaintext, key)
	if err != nil {
		t.Fatal(err)
	}

	// E and H are the most frequent plaintext letters here, not E and T.
	cand, err := Break(ct, Assumption{First: 'E', Second: 'H'})
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if cand.Key != key || cand.Plaintext != plaintext {
		t.Errorf("Break = %v %q, want %v %q", cand.Key, cand.Plaintext, key, plaintext)
	}

	// The default assumption yields some other key and no fallback happens.
	cand, err = Break(ct, DefaultAssumption)
	if err != nil {
		t.Fatalf("Break with default assumption: %v", err)
	}
	if cand.Key == key {
		t.Errorf("default assumption unexpectedly recovered %v", key)
	}
}

func TestBreakNonInvertibleCandidate(t *testing.T) {
	cand, err := Break("AAAC", DefaultAssumption)
	if !errors.Is(err, affine.ErrInvalidKey) {
		t.Fatalf("Break error = %v, want ErrInvalidKey", err)
	}
	if cand.Key != (affine.Key{A: 14, B: 22}) {
		t.Errorf("candidate key = %v, want (14, 22)", cand.Key)
	}
	if cand.Plaintext != "" {
		t.Errorf("candidate plaintext = %q, want empty", cand.Plaintext)
	}
}

func TestBreakErrors(t *testing.T) {
	if _, err := Break("AAAA !!", DefaultAssumption); !errors.Is(err, ErrInsufficientText) {
		t.Errorf("Break one letter error = %v, want ErrInsufficientText", err)
	}
	if _, err := Break(SheetCiphertext, Assumption{First: 'A', Second: 'N'}); !errors.Is(err, ErrNoSolution) {
		t.Errorf("Break assuming AN error = %v, want ErrNoSolution", err)
	}
}

func TestParseAssumption(t *testing.T) {
	got, err := ParseAssumption("et")
	if err != nil || got != DefaultAssumption {
		t.Errorf("ParseAssumption(et) = %v, %v", got, err)
	}
	for _, bad := range []string{"", "E", "ETA", "E1"} {
		if _, err := ParseAssumption(bad); err == nil {
			t.Errorf("ParseAssumption(%q) succeeded", bad)
		}
	}
}
