// Package export serializes sanitized ATS text into downloadable artifacts.
package export

import (
	"fmt"
)

// Format identifies an export output format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Artifact is a rendered export ready to be offered as a file download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ParseFormat validates a format string from a URL path segment.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTXT, FormatPDF, FormatDOCX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// Render serializes the sanitized text into the requested format.
// The stem is the filename without extension; the download name becomes
// <stem>_ATS.<ext>. All formats carry identical textual content.
func Render(format Format, formatted, stem string) (*Artifact, error) {
	switch format {
	case FormatTXT:
		return Text(formatted, stem), nil
	case FormatPDF:
		return PDF(formatted, stem)
	case FormatDOCX:
		return DOCX(formatted, stem)
	}
	return nil, fmt.Errorf("unsupported export format: %q", format)
}

func downloadName(stem string, format Format) string {
	return fmt.Sprintf("%s_ATS.%s", stem, format)
}
