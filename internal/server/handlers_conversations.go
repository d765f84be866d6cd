package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/julienlaffont/cvbooster/internal/ai"
	"github.com/julienlaffont/cvbooster/internal/db"
	"github.com/julienlaffont/cvbooster/internal/server/middleware"
	"github.com/julienlaffont/cvbooster/internal/types"
)

// ownedConversation loads the conversation addressed by {id}, scoped to the
// authenticated user.
func (s *Server) ownedConversation(r *http.Request) (*db.Conversation, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, fmt.Errorf("missing user in context: %w", err)
	}

	convID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrValidation{Field: "id", Message: "must be a valid UUID"}
	}

	conv, err := s.store.GetConversationForUser(r.Context(), convID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if conv == nil {
		return nil, &ErrConversationNotFound{ConversationID: convID}
	}
	return conv, nil
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	convs, err := s.store.ListConversations(r.Context(), userID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if convs == nil {
		convs = []db.Conversation{}
	}
	s.jsonResponse(w, http.StatusOK, convs)
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req types.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	title := req.Title
	if title == "" {
		title = "Nouvelle conversation"
	}

	convID, err := s.store.CreateConversation(r.Context(), userID, title)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	conv, err := s.store.GetConversationForUser(r.Context(), convID, userID)
	if err != nil || conv == nil {
		s.serviceError(w, fmt.Errorf("failed to load created conversation: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, conv)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conv, err := s.ownedConversation(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	messages, err := s.store.ListMessages(r.Context(), conv.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if messages == nil {
		messages = []db.Message{}
	}
	s.jsonResponse(w, http.StatusOK, messages)
}

// handleSendMessage stores the user message, generates the assistant reply
// synchronously with the prior turns as context, and returns both.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	conv, err := s.ownedConversation(r)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	var req types.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	history, err := s.store.ListMessages(r.Context(), conv.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	if _, err := s.store.CreateMessage(r.Context(), conv.ID, db.RoleUser, req.Content); err != nil {
		s.serviceError(w, err)
		return
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}

	reply, err := s.generator.Chat(r.Context(), turns, req.Content)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	if _, err := s.store.CreateMessage(r.Context(), conv.ID, db.RoleAssistant, reply); err != nil {
		s.serviceError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"conversation_id": conv.ID,
		"message":         req.Content,
		"reply":           reply,
	})
}
