package store

import (
	"context"
	"fmt"

	"github.com/dkurmanov/docvault/internal/config"
	"github.com/dkurmanov/docvault/internal/logger"
)

// Storages bundles every persistence backend the application uses.
type Storages struct {
	Files   ContainerFileStore
	Catalog DocumentCatalog

	db *DB
}

// Close releases the catalog database connection. Safe to call on a
// Storages built without a database.
func (s Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewStorages opens the catalog database, applies pending migrations and
// constructs all stores.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.Catalog, log)
	if err != nil {
		return Storages{}, fmt.Errorf("connect catalog database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return Storages{}, fmt.Errorf("migrate catalog database: %w", err)
	}

	return Storages{
		Files:   NewContainerFileStore(log),
		Catalog: NewDocumentCatalog(db, log),
		db:      db,
	}, nil
}
