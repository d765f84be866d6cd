package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/julienlaffont/cvbooster/internal/ats"
	"github.com/julienlaffont/cvbooster/internal/db"
	"github.com/julienlaffont/cvbooster/internal/export"
	"github.com/julienlaffont/cvbooster/internal/server/middleware"
	"github.com/julienlaffont/cvbooster/internal/types"
)

// ownedDocument loads the document addressed by the {id} path segment,
// scoped to the authenticated user and the route's kind. A missing document
// and another user's document produce the same not-found error.
func (s *Server) ownedDocument(r *http.Request, kind string) (*db.Document, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, fmt.Errorf("missing user in context: %w", err)
	}

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrValidation{Field: "id", Message: "must be a valid UUID"}
	}

	doc, err := s.store.GetDocumentForUser(r.Context(), docID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil || doc.Kind != kind {
		return nil, &ErrDocumentNotFound{DocumentID: docID}
	}
	return doc, nil
}

// handleListDocuments lists the user's documents of one kind, newest first.
func (s *Server) handleListDocuments(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.GetUserID(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		docs, err := s.store.ListDocuments(r.Context(), userID, kind)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if docs == nil {
			docs = []db.DocumentSummary{}
		}
		s.jsonResponse(w, http.StatusOK, docs)
	}
}

// handleCreateDocument stores a manually authored document.
func (s *Server) handleCreateDocument(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.GetUserID(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req types.CreateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
			return
		}

		docID, err := s.store.CreateDocument(r.Context(), userID, kind, req.Title, req.Content, req.Sector, req.Position)
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
}

func (s *Server) handleGetDocument(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.ownedDocument(r, kind)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, doc)
	}
}

// handleUpdateDocument applies a partial update to an owned document.
func (s *Server) handleUpdateDocument(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.ownedDocument(r, kind)
		if err != nil {
			s.serviceError(w, err)
			return
		}

		var req types.UpdateDocumentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
			return
		}

		userID, _ := middleware.GetUserID(r)
		updated, err := s.store.UpdateDocument(r.Context(), doc.ID, userID, req.Title, req.Content, req.Sector, req.Position)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if !updated {
			s.serviceError(w, &ErrDocumentNotFound{DocumentID: doc.ID})
			return
		}

		fresh, err := s.store.GetDocumentForUser(r.Context(), doc.ID, userID)
		if err != nil || fresh == nil {
			s.serviceError(w, fmt.Errorf("failed to load updated document: %v", err))
			return
		}
		s.jsonResponse(w, http.StatusOK, fresh)
	}
}

func (s *Server) handleDeleteDocument(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.ownedDocument(r, kind)
		if err != nil {
			s.serviceError(w, err)
			return
		}

		userID, _ := middleware.GetUserID(r)
		deleted, err := s.store.DeleteDocument(r.Context(), doc.ID, userID)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		if !deleted {
			s.serviceError(w, &ErrDocumentNotFound{DocumentID: doc.ID})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleExportDocument runs the ATS formatting pipeline and streams the
// requested artifact as a download.
func (s *Server) handleExportDocument(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.ownedDocument(r, kind)
		if err != nil {
			s.serviceError(w, err)
			return
		}

		format, err := export.ParseFormat(r.PathValue("format"))
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}

		formatted := ats.Format(ats.Document{
			Title:    doc.Title,
			Content:  doc.Content,
			Sector:   doc.Sector,
			Position: doc.Position,
		})

		artifact, err := export.Render(format, formatted, ats.FilenameStem(doc.Title))
		if err != nil {
			s.serviceError(w, err)
			return
		}

		w.Header().Set("Content-Type", artifact.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(artifact.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact.Data)
	}
}
