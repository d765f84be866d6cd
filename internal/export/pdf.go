package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDF page geometry, in millimeters. A4 is 210x297; with 20mm margins the
// printable width is 170mm, matching the default layout of the web app's
// print view.
const (
	pdfMargin     = 20.0
	pdfLineHeight = 5.5
	pdfFontSize   = 12.0
)

// PDF renders the sanitized text as left-aligned 12pt body text, word-wrapped
// to the printable width. Pagination is explicit: a new page starts whenever
// the next line would cross the bottom margin, so documents of any length
// render without truncation.
func PDF(formatted, stem string) (*Artifact, error) {
	pdf := buildPDF(formatted)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	return &Artifact{
		Filename:    downloadName(stem, FormatPDF),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

// buildPDF lays the text out page by page and returns the document before
// serialization, so pagination can be inspected.
func buildPDF(formatted string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", pdfFontSize)

	pageWidth, pageHeight := pdf.GetPageSize()
	printableWidth := pageWidth - 2*pdfMargin
	maxY := pageHeight - pdfMargin

	// Core fonts are cp1252; the translator maps accented characters.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := pdfMargin
	for _, line := range strings.Split(formatted, "\n") {
		for _, wrapped := range wrapLine(pdf, tr(line), printableWidth) {
			if y+pdfLineHeight > maxY {
				pdf.AddPage()
				y = pdfMargin
			}
			pdf.SetXY(pdfMargin, y)
			pdf.CellFormat(printableWidth, pdfLineHeight, wrapped, "", 0, "L", false, 0, "")
			y += pdfLineHeight
		}
	}

	return pdf
}

// wrapLine word-wraps a single input line to the printable width. A blank
// input line still occupies one rendered line so paragraph spacing survives.
func wrapLine(pdf *fpdf.Fpdf, line string, width float64) []string {
	if strings.TrimSpace(line) == "" {
		return []string{""}
	}
	wrapped := pdf.SplitText(line, width)
	if len(wrapped) == 0 {
		return []string{""}
	}
	return wrapped
}
