package export_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"bank-chat-client/internal/export"
	"bank-chat-client/internal/render"
)

func TestWriteXLSX(t *testing.T) {
	grids := []render.Grid{
		{
			AccountName: "Checking",
			Headers:     []string{"Date", "Amount"},
			Rows:        [][]string{{"2024-01-01", "100"}, {"2024-01-02", ""}},
			Totals:      []string{"", "100"},
			Footer:      "Total rows: 2",
		},
		{
			Headers: []string{"Card"},
			Rows:    [][]string{{"Visa"}},
		},
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, grids); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Table 1", "Table 2"}) {
		t.Fatalf("unexpected sheets %v", got)
	}

	rows, err := f.GetRows("Table 1")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"Checking"},
		{"Date", "Amount"},
		{"2024-01-01", "100"},
		{"2024-01-02"},
		{"", "100"},
		{"Total rows: 2"},
	}
	if rows = trimRows(rows); !reflect.DeepEqual(rows, want) {
		t.Fatalf("got %q, want %q", rows, want)
	}

	rows, err = f.GetRows("Table 2")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows, [][]string{{"Card"}, {"Visa"}}) {
		t.Fatalf("unexpected second sheet %q", rows)
	}
}

func TestWriteXLSXNoGrids(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, nil); !errors.Is(err, export.ErrNoGrids) {
		t.Fatalf("expected ErrNoGrids, got %v", err)
	}
}

// trimRows drops trailing empty cells, which excelize may or may not return.
func trimRows(rows [][]string) [][]string {
	for i, r := range rows {
		for len(r) > 0 && r[len(r)-1] == "" {
			r = r[:len(r)-1]
		}
		rows[i] = r
	}
	return rows
}
