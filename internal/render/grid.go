package render

import (
	"fmt"
	"strings"

	"bank-chat-client/internal/chat"
)

// Grid is a fully laid-out table ready for a view layer.
type Grid struct {
	AccountName string
	Headers     []string
	Rows        [][]string
	Totals      []string // nil when the table has no totals row
	Footer      string   // empty when there is no row count
}

// HasTotals reports whether the grid carries a totals row.
func (g Grid) HasTotals() bool {
	return g.Totals != nil
}

// Render lays out a table. The second result is false for malformed tables,
// which the view should skip entirely.
//
// Row and totals values are reversed before being matched to header
// positions: upstream producers emit values in the opposite order of the
// declared headers. Keep the reversal.
func Render(t chat.TableData) (Grid, bool) {
	if !t.Valid() {
		return Grid{}, false
	}

	g := Grid{
		AccountName: t.AccountName,
		Headers:     append([]string(nil), t.Headers...),
		Rows:        make([][]string, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		g.Rows = append(g.Rows, renderRow(row, t.Headers))
	}

	if t.Metadata.HasTotals && t.Metadata.Totals != nil {
		values := reversed(t.Metadata.Totals)
		g.Totals = make([]string, len(t.Headers))
		for i := range t.Headers {
			g.Totals[i] = cell(at(values, i))
		}
	}

	if t.Metadata.RowCount != 0 {
		g.Footer = fmt.Sprintf("Total rows: %d", t.Metadata.RowCount)
	}
	return g, true
}

// RenderAll renders every well-formed table of a message, in order.
func RenderAll(tables []chat.TableData) []Grid {
	out := make([]Grid, 0, len(tables))
	for _, t := range tables {
		if g, ok := Render(t); ok {
			out = append(out, g)
		}
	}
	return out
}

func renderRow(row chat.Row, headers []string) []string {
	values := reversed(row.Values())
	keyed, isKeyed := row.(chat.Keyed)

	cells := make([]string, len(headers))
	for i, header := range headers {
		v := at(values, i)
		if v == nil && isKeyed {
			v = lookupHeader(keyed, header)
		}
		cells[i] = cell(v)
	}
	return cells
}

// lookupHeader tries the exact key first, then the first key that matches
// ignoring case.
func lookupHeader(row chat.Keyed, header string) any {
	if v, ok := row.Lookup(header); ok && v != nil {
		return v
	}
	for _, f := range row {
		if strings.EqualFold(f.Key, header) {
			return f.Value
		}
	}
	return nil
}

func reversed(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

func at(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

func cell(v any) string {
	s, _ := chat.Stringify(v)
	return s
}
