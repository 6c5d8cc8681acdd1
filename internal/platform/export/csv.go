package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV streams the table as RFC 4180 CSV, header row first.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("export csv: write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: flush: %w", err)
	}
	return nil
}
