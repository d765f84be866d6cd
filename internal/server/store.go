package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/julienlaffont/cvbooster/internal/affiliate"
	"github.com/julienlaffont/cvbooster/internal/db"
)

// Store is the persistence surface the HTTP handlers need. *db.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	// users
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	// documents
	CreateDocument(ctx context.Context, userID uuid.UUID, kind, title, content string, sector, position *string) (uuid.UUID, error)
	GetDocumentForUser(ctx context.Context, docID, userID uuid.UUID) (*db.Document, error)
	ListDocuments(ctx context.Context, userID uuid.UUID, kind string) ([]db.DocumentSummary, error)
	UpdateDocument(ctx context.Context, docID, userID uuid.UUID, title, content, sector, position *string) (bool, error)
	DeleteDocument(ctx context.Context, docID, userID uuid.UUID) (bool, error)

	// conversations
	CreateConversation(ctx context.Context, userID uuid.UUID, title string) (uuid.UUID, error)
	GetConversationForUser(ctx context.Context, conversationID, userID uuid.UUID) (*db.Conversation, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]db.Conversation, error)
	CreateMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (uuid.UUID, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]db.Message, error)

	// affiliates (dashboard side; click/conversion flow goes through affiliate.Tracker)
	CreateAffiliate(ctx context.Context, userID uuid.UUID, code string, commissionRate int) (uuid.UUID, error)
	GetAffiliateByUserID(ctx context.Context, userID uuid.UUID) (*db.Affiliate, error)
	GetAffiliateTotals(ctx context.Context, affiliateID uuid.UUID) (*db.AffiliateTotals, error)
	UpdateCommissionStatus(ctx context.Context, commissionID uuid.UUID, status string) (bool, error)

	affiliate.Store
}

// compile-time check that the real database implements Store
var _ Store = (*db.DB)(nil)
