package report

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDF layout constants (A4 portrait, millimetres).
const (
	pdfRowHeight  = 8
	pdfBodyBottom = 270 // start a new page once the cursor passes this
)

// renderPDF produces the finished document bytes.
func renderPDF(t table) ([]byte, error) {
	doc := buildPDF(t, time.Now().UTC())

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildPDF lays the table out as a paginated document: title and
// generation timestamp, then a repeated header row and one row per
// record.  When the cursor would pass the page body limit a new page
// starts with a fresh header row.  Split out from renderPDF so tests can
// inspect page counts before serialization.
func buildPDF(t table, generatedAt time.Time) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(t.title, false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, t.title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, "Generated "+generatedAt.Format(time.RFC3339), "", 1, "L", false, 0, "")
	doc.Ln(4)

	if len(t.rows) == 0 {
		doc.SetFont("Helvetica", "I", 11)
		doc.CellFormat(0, 10, noDataMessage, "", 1, "L", false, 0, "")
		return doc
	}

	writeHeader(doc, t)
	doc.SetFont("Helvetica", "", 10)

	for _, row := range t.rows {
		if doc.GetY()+pdfRowHeight > pdfBodyBottom {
			doc.AddPage()
			writeHeader(doc, t)
			doc.SetFont("Helvetica", "", 10)
		}
		for i, cell := range row {
			doc.CellFormat(t.columns[i].width, pdfRowHeight, cell, "1", 0, "L", false, 0, "")
		}
		doc.Ln(pdfRowHeight)
	}

	return doc
}

func writeHeader(doc *fpdf.Fpdf, t table) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for _, c := range t.columns {
		doc.CellFormat(c.width, pdfRowHeight, c.name, "1", 0, "C", true, 0, "")
	}
	doc.Ln(pdfRowHeight)
}
