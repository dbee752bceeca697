package narrate

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPlainOutputForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)

	p.Section("Affine cipher")
	p.KV("key", "(a=5, b=3)")
	p.Result(true, "round trip %s", "HELLO")
	p.Result(false, "no inverse")

	want := "\n== Affine cipher ==\n  key: (a=5, b=3)\nok round trip HELLO\nFAIL no inverse\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Table([]string{"LETTER", "COUNT"}, [][]string{{"Y", "12"}, {"Z", "6"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("table has %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "Y ") || !strings.HasSuffix(lines[1], "12") {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestFormatting(t *testing.T) {
	if got := Count(65536); got != "65,536" {
		t.Errorf("Count(65536) = %q", got)
	}
	if got := Size(1000); got != "1.0 kB" {
		t.Errorf("Size(1000) = %q", got)
	}
	if got := Throughput(2000, time.Second); got != "2.0 kB/s" {
		t.Errorf("Throughput = %q", got)
	}
	if got := Throughput(1, 0); got != "n/a" {
		t.Errorf("Throughput with zero duration = %q", got)
	}
}
