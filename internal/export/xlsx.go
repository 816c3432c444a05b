package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"pass2bw/internal/extract"
)

// WriteXLSX returns an XLSX workbook (as bytes) with the same column order
// as the CSV output, for reviewing an export before importing it.
func WriteXLSX(schema []string, recs []extract.Record, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Credentials"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, field := range schema {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, field)
	}

	for r, rec := range recs {
		for c, field := range schema {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, rec[field])
		}
	}

	// Widen the columns people actually read
	_ = f.SetColWidth(sheet, "A", "B", 24) // name, folder
	_ = f.SetColWidth(sheet, "E", "E", 48) // notes
	_ = f.SetColWidth(sheet, "H", "J", 28) // uri, username, password

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
