// Package export writes rendered grids to spreadsheet files.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bank-chat-client/internal/render"
)

var ErrNoGrids = errors.New("nothing to export")

// SheetName is the name of the sheet holding the i-th grid, counting from 0.
func SheetName(i int) string {
	return fmt.Sprintf("Table %d", i+1)
}

// WriteXLSX writes one sheet per grid: the account name when present, the
// header row, body rows, the totals row and the footer line.
func WriteXLSX(w io.Writer, grids []render.Grid) error {
	if len(grids) == 0 {
		return ErrNoGrids
	}
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, g := range grids {
		name := SheetName(i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeGrid(f, name, g, bold); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeGrid(f *excelize.File, sheet string, g render.Grid, bold int) error {
	row := 1
	put := func(values []string, style int) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if style != 0 && len(values) > 0 {
			end, err := excelize.CoordinatesToCellName(len(values), row)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, end, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if g.AccountName != "" {
		if err := put([]string{g.AccountName}, bold); err != nil {
			return err
		}
	}
	if err := put(g.Headers, bold); err != nil {
		return err
	}
	for _, r := range g.Rows {
		if err := put(r, 0); err != nil {
			return err
		}
	}
	if g.HasTotals() {
		if err := put(g.Totals, bold); err != nil {
			return err
		}
	}
	if g.Footer != "" {
		if err := put([]string{g.Footer}, 0); err != nil {
			return err
		}
	}
	return nil
}
