package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dkurmanov/docvault/internal/config"
	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/internal/store"
	"github.com/dkurmanov/docvault/models"
)

// containerFileExt is the extension of sealed container files in the vault
// directory.
const containerFileExt = ".dvlt"

// libraryService is the private implementation of [LibraryService].
type libraryService struct {
	docs     DocumentService
	files    store.ContainerFileStore
	catalog  store.DocumentCatalog
	vaultDir string
	logger   *logger.Logger
}

// NewLibraryService constructs a [LibraryService] over the given document
// service and stores.
func NewLibraryService(docs DocumentService, storages store.Storages, cfg config.Storage, log *logger.Logger) LibraryService {
	return &libraryService{
		docs:     docs,
		files:    storages.Files,
		catalog:  storages.Catalog,
		vaultDir: cfg.Vault.Dir,
		logger:   log,
	}
}

// SealDocument implements [LibraryService]. Container files are named by
// document UUID, never by user-supplied names, so vault paths need no
// sanitization.
func (l *libraryService) SealDocument(ctx context.Context, name string, plaintext []byte, password string) (models.Document, string, error) {
	if _, err := l.catalog.GetDocumentByName(ctx, name); err == nil {
		return models.Document{}, "", fmt.Errorf("seal document: %w: %q", store.ErrDocumentAlreadyExists, name)
	}

	container, secret, err := l.docs.Seal(ctx, plaintext, password)
	if err != nil {
		return models.Document{}, "", fmt.Errorf("seal document %q: %w", name, err)
	}

	now := time.Now().UTC()
	doc := models.Document{
		ID:        uuid.NewString(),
		Name:      name,
		Size:      int64(len(container)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Path = filepath.Join(l.vaultDir, doc.ID+containerFileExt)

	if err := l.files.Save(ctx, doc.Path, container); err != nil {
		return models.Document{}, "", fmt.Errorf("store container for %q: %w", name, err)
	}
	if err := l.catalog.SaveDocument(ctx, doc); err != nil {
		// Catalog insert failed after the container hit disk; remove the
		// orphan so a retry is clean.
		if rmErr := l.files.Remove(ctx, doc.Path); rmErr != nil {
			l.logger.Err(rmErr).Str("path", doc.Path).Msg("failed to remove orphan container")
		}
		return models.Document{}, "", fmt.Errorf("register document %q: %w", name, err)
	}

	l.logger.Info().Str("name", name).Str("id", doc.ID).Int64("size", doc.Size).Msg("document sealed")
	return doc, secret, nil
}

// OpenDocument implements [LibraryService].
func (l *libraryService) OpenDocument(ctx context.Context, name, password string) ([]byte, error) {
	container, _, err := l.loadContainer(ctx, name)
	if err != nil {
		return nil, err
	}
	return l.docs.Open(ctx, container, password)
}

// OpenDocumentWithRecovery implements [LibraryService].
func (l *libraryService) OpenDocumentWithRecovery(ctx context.Context, name, recoverySecret string) ([]byte, error) {
	container, _, err := l.loadContainer(ctx, name)
	if err != nil {
		return nil, err
	}
	return l.docs.OpenWithRecovery(ctx, container, recoverySecret)
}

// RotateDocument implements [LibraryService].
func (l *libraryService) RotateDocument(ctx context.Context, name, oldPassword, newPassword string) error {
	return l.replaceContainer(ctx, name, func(container []byte) ([]byte, error) {
		return l.docs.Rotate(ctx, container, oldPassword, newPassword)
	})
}

// RotateDocumentWithRecovery implements [LibraryService].
func (l *libraryService) RotateDocumentWithRecovery(ctx context.Context, name, recoverySecret, newPassword string) error {
	return l.replaceContainer(ctx, name, func(container []byte) ([]byte, error) {
		return l.docs.RotateWithRecovery(ctx, container, recoverySecret, newPassword)
	})
}

// ReissueDocumentRecovery implements [LibraryService].
func (l *libraryService) ReissueDocumentRecovery(ctx context.Context, name, password string) (string, error) {
	var secret string
	err := l.replaceContainer(ctx, name, func(container []byte) ([]byte, error) {
		next, newSecret, err := l.docs.ReissueRecovery(ctx, container, password)
		if err != nil {
			return nil, err
		}
		secret = newSecret
		return next, nil
	})
	if err != nil {
		return "", err
	}
	return secret, nil
}

// ListDocuments implements [LibraryService].
func (l *libraryService) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return l.catalog.ListDocuments(ctx)
}

// RemoveDocument implements [LibraryService].
func (l *libraryService) RemoveDocument(ctx context.Context, name string) error {
	doc, err := l.catalog.GetDocumentByName(ctx, name)
	if err != nil {
		return err
	}
	if err := l.files.Remove(ctx, doc.Path); err != nil {
		return fmt.Errorf("remove container for %q: %w", name, err)
	}
	if err := l.catalog.DeleteDocument(ctx, name); err != nil {
		return fmt.Errorf("deregister document %q: %w", name, err)
	}
	l.logger.Info().Str("name", name).Msg("document removed")
	return nil
}

func (l *libraryService) loadContainer(ctx context.Context, name string) ([]byte, models.Document, error) {
	doc, err := l.catalog.GetDocumentByName(ctx, name)
	if err != nil {
		return nil, models.Document{}, err
	}
	container, err := l.files.Load(ctx, doc.Path)
	if err != nil {
		return nil, models.Document{}, fmt.Errorf("load container for %q: %w", name, err)
	}
	return container, doc, nil
}

// replaceContainer loads a named container, transforms it and writes the
// result back atomically, touching the catalog entry on success.
func (l *libraryService) replaceContainer(ctx context.Context, name string, transform func([]byte) ([]byte, error)) error {
	container, doc, err := l.loadContainer(ctx, name)
	if err != nil {
		return err
	}

	next, err := transform(container)
	if err != nil {
		return err
	}

	if err := l.files.Save(ctx, doc.Path, next); err != nil {
		return fmt.Errorf("store container for %q: %w", name, err)
	}

	doc.Size = int64(len(next))
	doc.UpdatedAt = time.Now().UTC()
	if err := l.catalog.UpdateDocument(ctx, doc); err != nil {
		return fmt.Errorf("update catalog entry for %q: %w", name, err)
	}
	return nil
}
