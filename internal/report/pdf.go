package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const pageWidth = 190.0 // A4 printable width in mm with default margins

// Render lays a Document out as a PDF and writes it to w.
func Render(doc Document, w io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(pageWidth, 9, doc.Title, "", "L", false)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	meta := doc.GeneratedAt.Format("January 2, 2006 15:04")
	if doc.Owner != "" {
		meta = fmt.Sprintf("Prepared for %s on %s", doc.Owner, meta)
	}
	pdf.MultiCell(pageWidth, 6, meta, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Helvetica", "B", 13)
			pdf.MultiCell(pageWidth, 7, section.Heading, "", "L", false)
		}
		if section.Body != "" {
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(pageWidth, 6, section.Body, "", "L", false)
		}
		pdf.Ln(3)
	}

	for _, table := range doc.Tables {
		renderTable(pdf, table)
	}

	if doc.Disclaimer != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(pageWidth, 5, doc.Disclaimer, "", "L", false)
	}

	return pdf.Output(w)
}

func renderTable(pdf *fpdf.Fpdf, table Table) {
	if len(table.Header) == 0 {
		return
	}

	if table.Title != "" {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.MultiCell(pageWidth, 7, table.Title, "", "L", false)
	}

	colWidth := pageWidth / float64(len(table.Header))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, cell := range table.Header {
		pdf.CellFormat(colWidth, 7, cell, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range table.Rows {
		for i := 0; i < len(table.Header); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 6, truncate(cell, 48), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// truncate shortens a cell to max runes, never splitting a multi-byte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
