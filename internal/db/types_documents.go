package db

import (
	"time"

	"github.com/google/uuid"
)

// Document kinds. CVs and cover letters share one table and one export path.
const (
	KindCV          = "cv"
	KindCoverLetter = "cover_letter"
)

// Document represents a stored CV or cover letter. The export pipeline reads
// Title, Content, Sector and Position and never mutates the record.
type Document struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Sector    *string   `json:"sector,omitempty"`
	Position  *string   `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentSummary is a lightweight view for list endpoints (no content body).
type DocumentSummary struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Sector    *string   `json:"sector,omitempty"`
	Position  *string   `json:"position,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
