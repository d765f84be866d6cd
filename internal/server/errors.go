// Package server provides the HTTP REST API for CVBooster.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrDocumentNotFound covers both a missing document and a document owned by
// another user. The two cases are indistinguishable on purpose.
type ErrDocumentNotFound struct {
	DocumentID uuid.UUID
}

func (e *ErrDocumentNotFound) Error() string {
	return fmt.Sprintf("document not found: %s", e.DocumentID)
}

// ErrConversationNotFound indicates the conversation is missing or owned by
// another user.
type ErrConversationNotFound struct {
	ConversationID uuid.UUID
}

func (e *ErrConversationNotFound) Error() string {
	return fmt.Sprintf("conversation not found: %s", e.ConversationID)
}

// ErrNotAffiliate indicates the user has not joined the affiliate program.
type ErrNotAffiliate struct{}

func (e *ErrNotAffiliate) Error() string {
	return "user is not an affiliate"
}

// ErrAlreadyAffiliate indicates the user already has an affiliate code.
type ErrAlreadyAffiliate struct{}

func (e *ErrAlreadyAffiliate) Error() string {
	return "user is already an affiliate"
}

// ErrCommissionNotFound indicates the commission does not exist.
type ErrCommissionNotFound struct {
	CommissionID uuid.UUID
}

func (e *ErrCommissionNotFound) Error() string {
	return fmt.Sprintf("commission not found: %s", e.CommissionID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists, *ErrAlreadyAffiliate:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrDocumentNotFound, *ErrConversationNotFound, *ErrNotAffiliate, *ErrCommissionNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
