// Package report renders vlad results for people.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"vladiate/internal/domain"
	"vladiate/internal/vlad"
)

// MaxListed is how many offenders are printed per rule before the rest are
// summarised as suppressed.
const MaxListed = 99

const (
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorReset  = "\033[0m"
)

// Text writes a colorized summary of each result to an io.Writer. It is safe
// for concurrent use; each report is written in one piece.
type Text struct {
	mu sync.Mutex
	w  io.Writer
}

// NewText returns a Text reporter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Report writes res.
func (t *Text) Report(res *vlad.Result) {
	var b strings.Builder
	Render(&b, res)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, b.String())
}

// Render formats res into b.
func Render(b *strings.Builder, res *vlad.Result) {
	fmt.Fprintf(b, "\nValidating %s(source=%s)\n", res.Name, res.Source)

	if res.Outcome == domain.OutcomeNoFieldnames {
		banner(b, colorYellow, "Source file has no field names")
		return
	}

	if len(res.MissingValidators) > 0 {
		banner(b, colorYellow, "Missing...")
		b.WriteString("  Missing validators for:\n")
		missing(b, res.MissingValidators)
	}
	if len(res.MissingFields) > 0 {
		banner(b, colorYellow, "Missing...")
		b.WriteString("  Missing expected fields:\n")
		missing(b, res.MissingFields)
	}

	switch res.Outcome {
	case domain.OutcomeThresholdExceeded:
		if br := res.Breach; br != nil {
			fmt.Fprintf(b, "  %s failed %d time(s) (%.1f%%) on field: '%s'\n",
				br.Rule, br.FailCount, br.Ratio*100, br.Column)
		}
		banner(b, colorRed, "Failed :(")
	case domain.OutcomeFailed:
		banner(b, colorRed, "Failed :(")
		rules(b, res)
	case domain.OutcomePassed:
		banner(b, colorGreen, "Passed! :)")
	}
}

// Nop discards results.
type Nop struct{}

// Report does nothing.
func (Nop) Report(*vlad.Result) {}

func banner(b *strings.Builder, color, msg string) {
	b.WriteString(color + msg + colorReset + "\n")
}

func missing(b *strings.Builder, cols []string) {
	for _, col := range cols {
		fmt.Fprintf(b, "    '%s': [],\n", col)
	}
}

func rules(b *strings.Builder, res *vlad.Result) {
	for _, rr := range res.Rows {
		if !rr.Bad.Any() {
			continue
		}
		fmt.Fprintf(b, " %s failed %d time(s) (%.1f%%)\n", rr.Rule, rr.FailCount, percent(rr.FailCount, res.LineCount))
		if !rr.Bad.Iterable() {
			continue
		}
		shown, hidden := split(rr.Bad.Items())
		fmt.Fprintf(b, "   Invalid rows:\n%s\n", strings.Join(shown, "\n"))
		suppressed(b, hidden)
	}

	for _, rr := range res.Fields {
		if !rr.Bad.Any() {
			continue
		}
		fmt.Fprintf(b, "  %s failed %d time(s) (%.1f%%) on field: '%s'\n",
			rr.Rule, rr.FailCount, percent(rr.FailCount, res.LineCount), rr.Column)
		if !rr.Bad.Iterable() {
			continue
		}
		shown, hidden := split(rr.Bad.Items())
		fmt.Fprintf(b, "    Invalid fields: [%s]\n", strings.Join(shown, ", "))
		suppressed(b, hidden)
	}
}

func split(items []string) (shown []string, hidden int) {
	if len(items) > MaxListed {
		hidden = len(items) - MaxListed
		items = items[:MaxListed]
	}
	shown = make([]string, len(items))
	for i, it := range items {
		shown[i] = "'" + it + "'"
	}
	return shown, hidden
}

func suppressed(b *strings.Builder, hidden int) {
	if hidden > 0 {
		fmt.Fprintf(b, "    (%d more suppressed)\n", hidden)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Multi fans a result out to several reporters, in order.
type Multi []vlad.Reporter

// Report forwards res to every reporter.
func (m Multi) Report(res *vlad.Result) {
	for _, r := range m {
		r.Report(res)
	}
}
