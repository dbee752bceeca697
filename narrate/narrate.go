// Package narrate prints exercise output. It is the only package that
// formats text for people; everything it shows is computed elsewhere.
package narrate

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const ruleWidth = 60

type Printer struct {
	w     io.Writer
	fancy bool
}

// New returns a Printer on w. Rules and check marks are used only when w is
// a terminal and plain is false.
func New(w io.Writer, plain bool) *Printer {
	return &Printer{w: w, fancy: !plain && isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Section(title string) {
	if p.fancy {
		rule := strings.Repeat("=", ruleWidth)
		fmt.Fprintf(p.w, "\n%s\n%s\n%s\n", rule, strings.ToUpper(title), rule)
		return
	}
	fmt.Fprintf(p.w, "\n== %s ==\n", title)
}

func (p *Printer) Linef(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// KV prints an indented "key: value" line.
func (p *Printer) KV(key string, value any) {
	fmt.Fprintf(p.w, "  %s: %v\n", key, value)
}

// Result prints a line marked as success or failure.
func (p *Printer) Result(ok bool, format string, args ...any) {
	mark := "ok"
	if !ok {
		mark = "FAIL"
	}
	if p.fancy {
		mark = "✅"
		if !ok {
			mark = "❌"
		}
	}
	fmt.Fprintf(p.w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Table prints rows in aligned columns.
func (p *Printer) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Count formats n with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Size formats a byte count, e.g. "1.0 kB".
func Size(n int) string {
	return humanize.Bytes(uint64(n))
}

// Throughput formats n bytes processed in d as a rate.
func Throughput(n int, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	perSecond := float64(n) / d.Seconds()
	return humanize.Bytes(uint64(perSecond)) + "/s"
}
