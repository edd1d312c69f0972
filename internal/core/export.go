package core

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportFileName is the download name for an exported view.
const ExportFileName = "wildlife_filtered.csv"

// Export writes view as CSV with the canonical header row and column order.
// Fields containing commas, quotes or line breaks are quoted, so the output
// loads back through LoadRecords unchanged.
func Export(w io.Writer, view View) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(HeaderLabels()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(Columns))
	for _, r := range view {
		for i, col := range Columns {
			row[i] = col.Value(r)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
