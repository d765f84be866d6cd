package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julienlaffont/cvbooster/internal/ats"
)

const sampleFormatted = "Mon CV\n\n- Built billing pipeline\n- Led migration to Go\n\n---\nSecteur: Informatique\nPoste visé: Développeur"

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"txt", "pdf", "docx"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), f)
	}

	_, err := ParseFormat("odt")
	assert.Error(t, err)
	_, err = ParseFormat("")
	assert.Error(t, err)
}

func TestText_Verbatim(t *testing.T) {
	artifact := Text(sampleFormatted, "Mon_CV")

	assert.Equal(t, "Mon_CV_ATS.txt", artifact.Filename)
	assert.Equal(t, "text/plain; charset=utf-8", artifact.ContentType)
	assert.Equal(t, sampleFormatted, string(artifact.Data))
}

func TestPDF_Metadata(t *testing.T) {
	artifact, err := PDF(sampleFormatted, "Mon_CV")
	require.NoError(t, err)

	assert.Equal(t, "Mon_CV_ATS.pdf", artifact.Filename)
	assert.Equal(t, "application/pdf", artifact.ContentType)
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("%PDF-")), "output must be a PDF document")
}

func TestPDF_SinglePageForShortText(t *testing.T) {
	pdf := buildPDF("Title\n\nshort body")
	assert.Equal(t, 1, pdf.PageCount())
}

func TestPDF_PaginatesLongDocuments(t *testing.T) {
	const totalLines = 300
	var sb strings.Builder
	for i := 0; i < totalLines; i++ {
		fmt.Fprintf(&sb, "experience line %d\n", i)
	}

	pdf := buildPDF(strings.TrimRight(sb.String(), "\n"))

	// A4 is 297mm tall; every page holds the same whole number of lines.
	pageHeight := 297.0
	linesPerPage := int((pageHeight - 2*pdfMargin) / pdfLineHeight)
	wantPages := (totalLines + linesPerPage - 1) / linesPerPage
	assert.Greater(t, pdf.PageCount(), 1, "long documents must span multiple pages")
	assert.Equal(t, wantPages, pdf.PageCount(), "no line may be dropped or duplicated at page boundaries")
}

func TestWrapLine_PreservesTokens(t *testing.T) {
	pdf := buildPDF("")
	long := strings.Repeat("word ", 80) + "end"

	wrapped := wrapLine(pdf, long, 170)

	assert.Greater(t, len(wrapped), 1, "long lines must wrap")
	assert.Equal(t, strings.Fields(long), strings.Fields(strings.Join(wrapped, " ")))
}

func TestWrapLine_BlankLineKeepsHeight(t *testing.T) {
	pdf := buildPDF("")
	assert.Equal(t, []string{""}, wrapLine(pdf, "", 170))
	assert.Equal(t, []string{""}, wrapLine(pdf, "   ", 170))
}

func TestDOCX_Metadata(t *testing.T) {
	artifact, err := DOCX(sampleFormatted, "Mon_CV")
	require.NoError(t, err)

	assert.Equal(t, "Mon_CV_ATS.docx", artifact.Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", artifact.ContentType)
	// DOCX is a zip container.
	assert.True(t, bytes.HasPrefix(artifact.Data, []byte("PK")), "output must be a zip archive")
}

func TestDOCX_ContentMatchesInputOrder(t *testing.T) {
	artifact, err := DOCX(sampleFormatted, "cv")
	require.NoError(t, err)

	text := docxText(t, artifact.Data)
	assert.Equal(t, strings.Fields(sampleFormatted), strings.Fields(text),
		"DOCX text must contain the same non-whitespace tokens in the same order")
}

func TestRender_FormatContentEquivalence(t *testing.T) {
	formatted := ats.Format(ats.Document{
		Title:   "Mon CV",
		Content: "• Built X\n• Led Y",
	})
	wantTokens := strings.Fields(formatted)

	txt, err := Render(FormatTXT, formatted, "cv")
	require.NoError(t, err)
	assert.Equal(t, wantTokens, strings.Fields(string(txt.Data)))

	docxArtifact, err := Render(FormatDOCX, formatted, "cv")
	require.NoError(t, err)
	assert.Equal(t, wantTokens, strings.Fields(docxText(t, docxArtifact.Data)))

	pdfArtifact, err := Render(FormatPDF, formatted, "cv")
	require.NoError(t, err)
	assert.NotEmpty(t, pdfArtifact.Data)
}

func TestRender_UnsupportedFormat(t *testing.T) {
	_, err := Render(Format("html"), "text", "cv")
	assert.Error(t, err)
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// docxText unzips the artifact and strips the WordprocessingML markup from
// the main document part, leaving the visible text.
func docxText(t *testing.T, data []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		raw, err := io.ReadAll(rc)
		require.NoError(t, err)
		return xmlTag.ReplaceAllString(string(raw), " ")
	}

	t.Fatal("word/document.xml not found in DOCX archive")
	return ""
}
