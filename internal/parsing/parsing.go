// Package parsing extracts plain text from uploaded CV files.
package parsing

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxUploadSize caps the size of an uploaded file in bytes.
const MaxUploadSize = 5 << 20

var (
	// ErrUnsupportedFormat is returned for file extensions other than .txt and .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrTooLarge is returned when the upload exceeds MaxUploadSize.
	ErrTooLarge = errors.New("file too large")
	// ErrInvalidText is returned when a .txt upload is not valid UTF-8.
	ErrInvalidText = errors.New("file is not valid UTF-8 text")
)

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText returns the plain-text content of an uploaded file, chosen by
// its filename extension.
func ExtractText(filename string, content []byte) (string, error) {
	if len(content) > MaxUploadSize {
		return "", ErrTooLarge
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extractTXT(content)
	case ".docx":
		return extractDOCX(content)
	default:
		return "", ErrUnsupportedFormat
	}
}

func extractTXT(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", ErrInvalidText
	}
	return normalize(string(content)), nil
}

// extractDOCX unzips the archive and strips XML tags from word/document.xml.
// Paragraph ends become line breaks so the document structure survives.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("open document.xml: %w", err)
			}
			b, err := io.ReadAll(io.LimitReader(rc, MaxUploadSize+1))
			_ = rc.Close()
			if err != nil {
				return "", fmt.Errorf("read document.xml: %w", err)
			}
			docXML = b
			break
		}
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("document.xml not found in docx")
	}
	if len(docXML) > MaxUploadSize {
		return "", ErrTooLarge
	}

	text := paragraphEnd.ReplaceAllString(string(docXML), "\n")
	text = xmlTag.ReplaceAllString(text, "")
	return normalize(text), nil
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}
