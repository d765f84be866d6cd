package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienlaffont/cvbooster/internal/db"
	"github.com/julienlaffont/cvbooster/internal/server/middleware"
	"github.com/julienlaffont/cvbooster/internal/types"
)

// handleGenerateCV turns the wizard payload into an AI-written CV and stores
// it as a new document.
func (s *Server) handleGenerateCV(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req types.GenerateCVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	content, err := s.generator.GenerateCV(r.Context(), &req)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	title := "CV - " + req.FullName
	if req.Position != nil && *req.Position != "" {
		title = "CV " + *req.Position + " - " + req.FullName
	}

	docID, err := s.store.CreateDocument(r.Context(), userID, db.KindCV, title, content, req.Sector, req.Position)
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

// handleGenerateCoverLetter writes a cover letter for a company and position
// and stores it as a new document.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req types.GenerateCoverLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	content, err := s.generator.GenerateCoverLetter(r.Context(), &req)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	title := "Lettre " + req.Company + " - " + req.Position
	position := req.Position

	docID, err := s.store.CreateDocument(r.Context(), userID, db.KindCoverLetter, title, content, req.Sector, &position)
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

// handleAnalyzeCV asks the model for improvement feedback on a stored CV.
// The document itself is not modified.
func (s *Server) handleAnalyzeCV(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ownedDocument(r, db.KindCV)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	feedback, err := s.generator.Analyze(r.Context(), doc.Content, doc.Sector, doc.Position)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"document_id": doc.ID,
		"feedback":    feedback,
	})
}
