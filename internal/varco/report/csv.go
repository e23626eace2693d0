package report

import (
	"encoding/csv"
	"strings"
)

// renderCSV serializes the table as a header line plus one line per row.
// An empty table still yields one placeholder record after the header, so
// downstream consumers never see a header-only file and wonder whether
// the export broke.
func renderCSV(t table) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.name
	}
	_ = w.Write(header)

	if len(t.rows) == 0 {
		placeholder := make([]string, len(t.columns))
		placeholder[0] = noDataMessage
		_ = w.Write(placeholder)
	}
	for _, row := range t.rows {
		_ = w.Write(row)
	}

	w.Flush()
	return sb.String()
}
