package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"pass2bw/internal/extract"
)

// WriteCSV writes the header row (schema field names, in schema order)
// followed by one data row per record. This is the Bitwarden generic-CSV
// import contract: header-exact and field-order-exact, RFC 4180 quoting.
func WriteCSV(w io.Writer, schema []string, recs []extract.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(schema); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(schema))
	for _, rec := range recs {
		for i, field := range schema {
			row[i] = rec[field]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
