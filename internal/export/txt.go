package export

// Text emits the sanitized string verbatim as UTF-8 plain text.
// This is the most ATS-reliable format: no markup, no container.
func Text(formatted, stem string) *Artifact {
	return &Artifact{
		Filename:    downloadName(stem, FormatTXT),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(formatted),
	}
}
