package service

import (
	"github.com/dkurmanov/docvault/internal/config"
	"github.com/dkurmanov/docvault/internal/crypto"
	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/internal/store"
)

// Services bundles every service the application exposes to its surfaces.
type Services struct {
	DocumentService DocumentService
	LibraryService  LibraryService
}

// NewServices wires the crypto primitives into the document and library
// services.
func NewServices(storages store.Storages, cfg config.StructuredConfig, log *logger.Logger) *Services {
	kdf := crypto.NewKeyDerivationService()
	cipher := crypto.NewContentCipherService()
	escrow := crypto.NewRecoveryEscrowService(kdf, cipher)

	docs := NewDocumentService(cipher, escrow, log)
	return &Services{
		DocumentService: docs,
		LibraryService:  NewLibraryService(docs, storages, cfg.Storage, log),
	}
}
