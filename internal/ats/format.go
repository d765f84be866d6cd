// Package ats normalizes stored document text into a plain-text form that
// applicant tracking systems parse reliably.
package ats

import (
	"regexp"
	"strings"
	"unicode"
)

// Unspecified is the metadata placeholder used when a document has no
// sector or target position.
const Unspecified = "Non spécifié"

// Document carries the fields of a stored CV or cover letter that the
// export pipeline reads. It is never mutated.
type Document struct {
	Title    string
	Content  string
	Sector   *string
	Position *string
}

// allowedPunct is the set of punctuation marks ATS parsers handle reliably.
// Everything else outside letters, digits and whitespace is replaced.
const allowedPunct = "-.@(),:/+'#&"

var multiBlankLine = regexp.MustCompile(`\n{3,}`)

// Format produces the full ATS export text: title, sanitized body, a
// separator line and the sector/position metadata footer.
func Format(doc Document) string {
	var sb strings.Builder
	sb.WriteString(doc.Title)
	sb.WriteString("\n\n")
	sb.WriteString(SanitizeBody(doc.Content))
	sb.WriteString("\n\n---\n")
	sb.WriteString("Secteur: ")
	sb.WriteString(orUnspecified(doc.Sector))
	sb.WriteString("\n")
	sb.WriteString("Poste visé: ")
	sb.WriteString(orUnspecified(doc.Position))
	return sb.String()
}

// SanitizeBody maps arbitrary document text onto the ATS-safe character set:
//   - the bullet glyph • becomes a plain hyphen
//   - runes outside letters, digits, whitespace and allowedPunct become a space
//   - runs of horizontal whitespace collapse to a single space
//   - three or more consecutive newlines collapse to exactly two
//   - the whole body is trimmed
//
// The function is pure and idempotent: sanitizing its own output changes nothing.
func SanitizeBody(content string) string {
	if content == "" {
		return ""
	}

	// Normalize CRLF and bare CR so line handling below only sees \n.
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var sb strings.Builder
	sb.Grow(len(content))

	inSpaceRun := false
	for _, r := range content {
		switch {
		case r == '\n':
			// Drop any pending horizontal whitespace at end of line.
			trimTrailingSpace(&sb)
			sb.WriteRune('\n')
			inSpaceRun = false
		case unicode.IsSpace(r):
			if !inSpaceRun {
				sb.WriteRune(' ')
				inSpaceRun = true
			}
		case r == '•':
			sb.WriteRune('-')
			inSpaceRun = false
		case unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(allowedPunct, r):
			sb.WriteRune(r)
			inSpaceRun = false
		default:
			if !inSpaceRun {
				sb.WriteRune(' ')
				inSpaceRun = true
			}
		}
	}

	out := multiBlankLine.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out)
}

// trimTrailingSpace removes spaces already written at the end of the builder.
func trimTrailingSpace(sb *strings.Builder) {
	s := sb.String()
	trimmed := strings.TrimRight(s, " ")
	if len(trimmed) != len(s) {
		sb.Reset()
		sb.WriteString(trimmed)
	}
}

func orUnspecified(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return Unspecified
	}
	return *v
}

// FilenameStem derives a download filename stem from a document title,
// keeping only letters, digits, hyphens and underscores. Falls back to "cv".
func FilenameStem(title string) string {
	var sb strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('_')
		}
	}
	stem := strings.Trim(sb.String(), "_")
	if stem == "" {
		return "cv"
	}
	return stem
}
