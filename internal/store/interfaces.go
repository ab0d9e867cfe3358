package store

import (
	"context"

	"github.com/dkurmanov/docvault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ContainerFileStore persists sealed container bytes as single local files.
// Writes are atomic (write-to-temp-then-rename) so a crash never leaves a
// half-written container behind. Concurrent writers to the same path must be
// serialized by the caller.
type ContainerFileStore interface {
	// Save atomically replaces the file at path with data.
	Save(ctx context.Context, path string, data []byte) error

	// Load reads the file at path. I/O errors are surfaced unchanged,
	// wrapped only for context.
	Load(ctx context.Context, path string) ([]byte, error)

	// Remove deletes the file at path.
	Remove(ctx context.Context, path string) error
}

// DocumentCatalog is the local metadata index of sealed documents. It never
// holds plaintext, key material or recovery secrets.
type DocumentCatalog interface {
	SaveDocument(ctx context.Context, doc models.Document) error
	GetDocumentByName(ctx context.Context, name string) (models.Document, error)
	ListDocuments(ctx context.Context) ([]models.Document, error)
	UpdateDocument(ctx context.Context, doc models.Document) error
	DeleteDocument(ctx context.Context, name string) error
}
