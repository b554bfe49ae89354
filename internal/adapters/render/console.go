// Package render formats leaderboards and reports for humans. Field
// order and values are fixed; the table dressing is presentation only.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
)

// Columns shown for every leaderboard row, in order.
var columns = []string{
	"Name",
	"Division",
	"Sex",
	"WeightClassKg",
	"BodyweightKg",
	"Best3SquatKg",
	"Best3BenchKg",
	"Best3DeadliftKg",
	"TotalKg",
}

// Console renders pipeline output as text tables.
type Console struct {
	style table.Style
	topN  int
}

// ConsoleOption applies a configuration option to the Console.
type ConsoleOption func(*Console)

// WithStyle overrides the table style.
func WithStyle(style table.Style) ConsoleOption {
	return func(c *Console) {
		c.style = style
	}
}

// WithTopN sets the podium size named in table titles.
func WithTopN(n int) ConsoleOption {
	return func(c *Console) {
		if n > 0 {
			c.topN = n
		}
	}
}

// NewConsole creates a console renderer with default configuration.
func NewConsole(opts ...ConsoleOption) *Console {
	// Header cells must carry the source column names verbatim, so the
	// style's default upper-casing is switched off.
	style := table.StyleLight
	style.Format.Header = text.FormatDefault

	c := &Console{
		style: style,
		topN:  standings.DefaultTopN,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Leaderboards writes every leaderboard to w: a separator per cohort,
// then one table per metric in order. Boards must already be in
// display order; this writes them as given.
func (c *Console) Leaderboards(w io.Writer, boards []standings.Leaderboard) error {
	var current model.Cohort
	seen := false
	for _, board := range boards {
		if !seen || board.Cohort != current {
			current = board.Cohort
			seen = true
			_, _ = fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 70))
			_, _ = fmt.Fprintf(w, "Category: %s %s %s\n", current.Sex, current.WeightClass, current.Division)
			_, _ = fmt.Fprintf(w, "%s\n", strings.Repeat("=", 70))
		}
		c.board(w, board)
	}
	return nil
}

// board writes a single leaderboard table.
func (c *Console) board(w io.Writer, board standings.Leaderboard) {
	_, _ = fmt.Fprintf(w, "\nTop %d %s %s %s %s\n",
		c.topN,
		board.Cohort.Sex, board.Cohort.WeightClass, board.Cohort.Division,
		strings.ToUpper(string(board.Metric)),
	)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(c.style)

	headerRow := make(table.Row, len(columns))
	for i, col := range columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, rec := range board.Entries {
		t.AppendRow(table.Row{
			strings.TrimSpace(rec.Name),
			strings.TrimSpace(rec.Division),
			strings.TrimSpace(rec.Sex),
			strings.TrimSpace(rec.WeightClass),
			strings.TrimSpace(rec.Bodyweight),
			strings.TrimSpace(rec.Squat),
			strings.TrimSpace(rec.Bench),
			strings.TrimSpace(rec.Deadlift),
			strings.TrimSpace(rec.Total),
		})
	}
	t.Render()
}

// Duplicates writes the multi-division report to w.
func (c *Console) Duplicates(w io.Writer, dups []dedupe.Duplicate) error {
	if len(dups) == 0 {
		_, _ = fmt.Fprintln(w, "No athletes found in multiple divisions.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(c.style)
	t.AppendHeader(table.Row{"Name", "Sex", "Divisions"})
	for _, d := range dups {
		t.AppendRow(table.Row{d.Identity.Name, d.Identity.Sex, strings.Join(d.Divisions, ", ")})
	}
	t.Render()
	return nil
}
