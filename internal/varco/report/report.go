// Package report renders aggregated report rows into JSON, CSV, or PDF.
//
// Both report kinds (gate-shaped and badge-shaped rows) are first
// converted into a small format-neutral table model; the CSV and PDF
// renderers only ever see the table.  JSON bypasses the table and passes
// the typed rows through unmodified.
package report

import (
	"fmt"
	"strings"

	"github.com/varcoaccess/varco/internal/varco/apperr"
	"github.com/varcoaccess/varco/internal/varco/types"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat maps a query-parameter value onto a Format.  An empty value
// defaults to JSON; anything else unknown is a BadRequest.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return FormatJSON, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", apperr.Newf(apperr.BadRequest, "unknown report format %q", s)
	}
}

// Output is one rendered report.  Exactly one payload field is populated,
// matching Format; the boundary maps it onto a content type and body.
type Output struct {
	Format Format

	// JSON is the typed row slice, ready for encoding (Format == json).
	JSON any

	// CSV is the full text body (Format == csv).
	CSV string

	// PDF is the finished document (Format == pdf).
	PDF []byte
}

// Gates renders the fleet-wide gate report in the requested format.
func Gates(rows []types.GateReportRow, format Format) (Output, error) {
	switch format {
	case FormatJSON:
		return Output{Format: FormatJSON, JSON: rows}, nil
	case FormatCSV:
		return Output{Format: FormatCSV, CSV: renderCSV(gateTable(rows))}, nil
	case FormatPDF:
		b, err := renderPDF(gateTable(rows))
		if err != nil {
			return Output{}, fmt.Errorf("render gate report pdf: %w", err)
		}
		return Output{Format: FormatPDF, PDF: b}, nil
	default:
		return Output{}, apperr.Newf(apperr.BadRequest, "unknown report format %q", format)
	}
}

// Badges renders the fleet-wide badge report in the requested format.
func Badges(rows []types.BadgeReportRow, format Format) (Output, error) {
	switch format {
	case FormatJSON:
		return Output{Format: FormatJSON, JSON: rows}, nil
	case FormatCSV:
		return Output{Format: FormatCSV, CSV: renderCSV(badgeTable(rows))}, nil
	case FormatPDF:
		b, err := renderPDF(badgeTable(rows))
		if err != nil {
			return Output{}, fmt.Errorf("render badge report pdf: %w", err)
		}
		return Output{Format: FormatPDF, PDF: b}, nil
	default:
		return Output{}, apperr.Newf(apperr.BadRequest, "unknown report format %q", format)
	}
}
