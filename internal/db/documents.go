package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateDocument inserts a CV or cover letter and returns its ID
func (db *DB) CreateDocument(ctx context.Context, userID uuid.UUID, kind, title, content string, sector, position *string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (user_id, kind, title, content, sector, position)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		userID, kind, title, content, sector, position,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create document: %w", err)
	}
	return id, nil
}

// GetDocumentForUser retrieves a document only if it belongs to the user.
// Returns (nil, nil) when the document does not exist or is owned by someone
// else, so callers cannot distinguish the two cases.
func (db *DB) GetDocumentForUser(ctx context.Context, docID, userID uuid.UUID) (*Document, error) {
	var d Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, kind, title, content, sector, position, created_at, updated_at
		 FROM documents WHERE id = $1 AND user_id = $2`,
		docID, userID,
	).Scan(&d.ID, &d.UserID, &d.Kind, &d.Title, &d.Content, &d.Sector, &d.Position, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListDocuments retrieves the user's documents of a kind, newest first
func (db *DB) ListDocuments(ctx context.Context, userID uuid.UUID, kind string) ([]DocumentSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, kind, title, sector, position, created_at, updated_at
		 FROM documents WHERE user_id = $1 AND kind = $2
		 ORDER BY updated_at DESC`,
		userID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentSummary
	for rows.Next() {
		var d DocumentSummary
		if err := rows.Scan(&d.ID, &d.Kind, &d.Title, &d.Sector, &d.Position, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// UpdateDocument applies the non-nil fields to a document the user owns.
// Reports whether a row was updated.
func (db *DB) UpdateDocument(ctx context.Context, docID, userID uuid.UUID, title, content, sector, position *string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE documents SET
		   title = COALESCE($3, title),
		   content = COALESCE($4, content),
		   sector = COALESCE($5, sector),
		   position = COALESCE($6, position),
		   updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		docID, userID, title, content, sector, position,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update document: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DeleteDocument deletes a document the user owns. Reports whether a row was deleted.
func (db *DB) DeleteDocument(ctx context.Context, docID, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND user_id = $2`,
		docID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
