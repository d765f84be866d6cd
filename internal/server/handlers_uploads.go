package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/julienlaffont/cvbooster/internal/db"
	"github.com/julienlaffont/cvbooster/internal/parsing"
	"github.com/julienlaffont/cvbooster/internal/server/middleware"
)

// handleUploadCV accepts a multipart upload under the "file" field, extracts
// its text and stores it as a new CV document titled after the filename.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(parsing.MaxUploadSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, parsing.MaxUploadSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	text, err := parsing.ExtractText(header.Filename, content)
	if err != nil {
		switch {
		case errors.Is(err, parsing.ErrUnsupportedFormat):
			s.errorResponse(w, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, parsing.ErrTooLarge):
			s.errorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		case errors.Is(err, parsing.ErrInvalidText):
			s.errorResponse(w, http.StatusBadRequest, err.Error())
		default:
			s.errorResponse(w, http.StatusBadRequest, "failed to parse file")
		}
		return
	}
	if strings.TrimSpace(text) == "" {
		s.errorResponse(w, http.StatusBadRequest, "file contains no text")
		return
	}

	title := uploadTitle(header.Filename)
	docID, err := s.store.CreateDocument(r.Context(), userID, db.KindCV, title, text, nil, nil)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	doc, err := s.store.GetDocumentForUser(r.Context(), docID, userID)
	if err != nil || doc == nil {
		s.serviceError(w, fmt.Errorf("failed to load created document: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, doc)
}

// uploadTitle derives a document title from the uploaded filename.
func uploadTitle(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "CV importé"
	}
	return name
}
