package service

import (
	"context"

	"github.com/dkurmanov/docvault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// DocumentService seals and opens document containers. It is pure
// computation over byte buffers: no file I/O, no catalog, no state between
// calls. Every method is safe for concurrent use.
//
// Scheme per document:
//
//	contentKey = random 32 bytes                     (never leaves a call)
//	container  = wrap(contentKey, password)
//	           + wrap(contentKey, recoverySecret)
//	           + AES-CBC(plaintext, contentKey)
//	           + HMAC tag keyed from contentKey
//
// Either credential unwraps the content key; the tag is verified before any
// content decryption. Re-wrapping under a new credential never touches the
// bulk ciphertext, which is what keeps password rotation cheap and keeps the
// original recovery secret valid across rotations.
type DocumentService interface {
	// Seal encrypts plaintext under password and escrows access through a
	// freshly generated recovery secret. The secret is returned exactly
	// once; it is never stored anywhere and cannot be shown again.
	Seal(ctx context.Context, plaintext []byte, password string) (container []byte, recoverySecret string, err error)

	// Open recovers plaintext using the password. Fails with
	// [models.ErrWrongCredential] on a wrong password or tampered
	// container, and with [models.ErrMalformedContainer] on parse failure.
	// A failed password attempt does not affect the recovery path.
	Open(ctx context.Context, container []byte, password string) ([]byte, error)

	// OpenWithRecovery recovers plaintext using the recovery secret.
	// Failure modes mirror Open.
	OpenWithRecovery(ctx context.Context, container []byte, recoverySecret string) ([]byte, error)

	// Rotate re-wraps the content key under newPassword. The recovery block
	// and the content ciphertext are untouched, so the original recovery
	// secret keeps working and the cost is independent of document size.
	Rotate(ctx context.Context, container []byte, oldPassword, newPassword string) ([]byte, error)

	// RotateWithRecovery sets a new password via the recovery path, for the
	// user who sealed a document and then forgot its password.
	RotateWithRecovery(ctx context.Context, container []byte, recoverySecret, newPassword string) ([]byte, error)

	// ReissueRecovery replaces a lost recovery secret with a fresh one,
	// authorized by the password. The previous secret stops working.
	ReissueRecovery(ctx context.Context, container []byte, password string) (newContainer []byte, newSecret string, err error)
}

// LibraryService is the caller-facing surface over named documents: it pairs
// DocumentService with the container file store and the catalog.
type LibraryService interface {
	// SealDocument seals plaintext under password, writes the container
	// atomically into the vault directory and registers it in the catalog.
	SealDocument(ctx context.Context, name string, plaintext []byte, password string) (models.Document, string, error)

	// OpenDocument loads a named container and opens it with the password.
	OpenDocument(ctx context.Context, name, password string) ([]byte, error)

	// OpenDocumentWithRecovery loads a named container and opens it with
	// the recovery secret.
	OpenDocumentWithRecovery(ctx context.Context, name, recoverySecret string) ([]byte, error)

	// RotateDocument changes a document's password in place.
	RotateDocument(ctx context.Context, name, oldPassword, newPassword string) error

	// RotateDocumentWithRecovery sets a new password via the recovery path.
	RotateDocumentWithRecovery(ctx context.Context, name, recoverySecret, newPassword string) error

	// ReissueDocumentRecovery replaces a document's recovery secret and
	// returns the new one.
	ReissueDocumentRecovery(ctx context.Context, name, password string) (string, error)

	// ListDocuments returns all catalog entries in name order.
	ListDocuments(ctx context.Context) ([]models.Document, error)

	// RemoveDocument deletes the container file and its catalog entry.
	RemoveDocument(ctx context.Context, name string) error
}
