package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// Font sizes are in half-points, as OOXML expects.
const (
	docxTitleSize = "32" // 16pt
	docxBodySize  = "22" // 11pt
)

// DOCX emits one paragraph per input line, in input order. The first line of
// the sanitized text is the document title: it is rendered bold and larger,
// followed by a blank paragraph, then the body paragraphs.
func DOCX(formatted, stem string) (*Artifact, error) {
	doc := docx.New().WithDefaultTheme()

	lines := strings.Split(formatted, "\n")
	if len(lines) > 0 {
		doc.AddParagraph().AddText(lines[0]).Size(docxTitleSize).Bold()
		doc.AddParagraph()
		lines = lines[1:]
		// The sanitized text separates the title from the body with a blank
		// line of its own; drop it so exactly one blank paragraph follows
		// the title.
		if len(lines) > 0 && lines[0] == "" {
			lines = lines[1:]
		}
	}

	for _, line := range lines {
		p := doc.AddParagraph()
		if line != "" {
			p.AddText(line).Size(docxBodySize)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render DOCX: %w", err)
	}

	return &Artifact{
		Filename:    downloadName(stem, FormatDOCX),
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        buf.Bytes(),
	}, nil
}
