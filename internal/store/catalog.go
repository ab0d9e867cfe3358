package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/models"
)

// documentCatalog is the SQLite implementation of [DocumentCatalog].
type documentCatalog struct {
	*DB
	logger *logger.Logger
}

// NewDocumentCatalog constructs a [DocumentCatalog] backed by db.
func NewDocumentCatalog(db *DB, log *logger.Logger) DocumentCatalog {
	return &documentCatalog{
		DB:     db,
		logger: log,
	}
}

var documentColumns = []string{"id", "name", "path", "size", "created_at", "updated_at"}

// SaveDocument implements [DocumentCatalog]. Saving a document whose name is
// already present fails with [ErrDocumentAlreadyExists].
func (c *documentCatalog) SaveDocument(ctx context.Context, doc models.Document) error {
	query, args, err := sq.Insert("documents").
		Columns(documentColumns...).
		Values(doc.ID, doc.Name, doc.Path, doc.Size, doc.CreatedAt, doc.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrDocumentAlreadyExists, doc.Name)
		}
		c.logger.Err(err).Str("name", doc.Name).Msg("failed to insert document row")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDocumentNotSaved
	}
	return nil
}

// GetDocumentByName implements [DocumentCatalog].
func (c *documentCatalog) GetDocumentByName(ctx context.Context, name string) (models.Document, error) {
	query, args, err := sq.Select(documentColumns...).
		From("documents").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var doc models.Document
	row := c.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&doc.ID, &doc.Name, &doc.Path, &doc.Size, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Document{}, fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
		}
		return models.Document{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return doc, nil
}

// ListDocuments implements [DocumentCatalog]. Documents are returned in name
// order.
func (c *documentCatalog) ListDocuments(ctx context.Context) ([]models.Document, error) {
	query, args, err := sq.Select(documentColumns...).
		From("documents").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Path, &doc.Size, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return docs, nil
}

// UpdateDocument implements [DocumentCatalog]. Only path, size and updated_at
// are mutable; id, name and created_at are fixed at first seal.
func (c *documentCatalog) UpdateDocument(ctx context.Context, doc models.Document) error {
	query, args, err := sq.Update("documents").
		Set("path", doc.Path).
		Set("size", doc.Size).
		Set("updated_at", doc.UpdatedAt).
		Where(sq.Eq{"name": doc.Name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrDocumentNotFound, doc.Name)
	}
	return nil
}

// DeleteDocument implements [DocumentCatalog].
func (c *documentCatalog) DeleteDocument(ctx context.Context, name string) error {
	query, args, err := sq.Delete("documents").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := c.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}
	return nil
}

// isUniqueViolation matches the sqlite unique-constraint error without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
