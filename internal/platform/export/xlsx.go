package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Column width bounds in Excel character units.
const (
	minColWidth = 10
	maxColWidth = 42
)

// WriteXLSX writes one sheet per table into a single workbook: bold styled
// header row, frozen below, with column widths sized to the content.
func WriteXLSX(w io.Writer, tables ...*Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("export xlsx: no tables")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E2EFDA"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("export xlsx: header style: %w", err)
	}

	for i, t := range tables {
		idx, err := f.NewSheet(t.Title)
		if err != nil {
			return fmt.Errorf("export xlsx: sheet %s: %w", t.Title, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, t, headerStyle); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export xlsx: drop default sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export xlsx: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t *Table, headerStyle int) error {
	widths := columnWidths(t)
	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("export xlsx: header cell: %w", err)
		}
		if err := f.SetCellValue(t.Title, cell, header); err != nil {
			return fmt.Errorf("export xlsx: set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(t.Title, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("export xlsx: style header %s: %w", cell, err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("export xlsx: column name: %w", err)
		}
		if err := f.SetColWidth(t.Title, name, name, widths[col]); err != nil {
			return fmt.Errorf("export xlsx: column width %s: %w", name, err)
		}
	}

	for rowIdx, row := range t.Rows {
		for col, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("export xlsx: data cell: %w", err)
			}
			if err := f.SetCellValue(t.Title, cell, value); err != nil {
				return fmt.Errorf("export xlsx: set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(t.Title, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export xlsx: freeze header: %w", err)
	}
	return nil
}

// columnWidths sizes each column to its longest cell, clamped to the bounds.
func columnWidths(t *Table) []float64 {
	widths := make([]float64, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = float64(len(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && float64(len(cell)) > widths[i] {
				widths[i] = float64(len(cell))
			}
		}
	}
	for i := range widths {
		w := widths[i] + 2
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		widths[i] = w
	}
	return widths
}
