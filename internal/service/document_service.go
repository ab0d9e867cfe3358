package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/dkurmanov/docvault/internal/crypto"
	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/models"
)

// documentService is the private implementation of [DocumentService].
type documentService struct {
	cipher crypto.ContentCipherService
	escrow crypto.RecoveryEscrowService
	logger *logger.Logger
}

// NewDocumentService constructs a [DocumentService] on top of the crypto
// services. Key derivation is reached through the escrow service, which uses
// the same KDF for the password and recovery wrap paths.
func NewDocumentService(cipher crypto.ContentCipherService, escrow crypto.RecoveryEscrowService, log *logger.Logger) DocumentService {
	return &documentService{
		cipher: cipher,
		escrow: escrow,
		logger: log,
	}
}

// Seal implements [DocumentService].
func (s *documentService) Seal(ctx context.Context, plaintext []byte, password string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	contentKey, err := s.escrow.GenerateContentKey()
	if err != nil {
		return nil, "", fmt.Errorf("generate content key: %w", err)
	}
	defer crypto.Zero(contentKey)

	secret, err := s.escrow.GenerateRecoverySecret()
	if err != nil {
		return nil, "", fmt.Errorf("generate recovery secret: %w", err)
	}

	container, err := s.assemble(contentKey, plaintext, password, secret)
	if err != nil {
		return nil, "", err
	}

	data, err := s.finalize(container, contentKey)
	if err != nil {
		return nil, "", err
	}

	s.logger.Debug().Int("container_size", len(data)).Msg("document sealed")
	return data, secret, nil
}

// Open implements [DocumentService].
func (s *documentService) Open(ctx context.Context, container []byte, password string) ([]byte, error) {
	return s.open(ctx, container, password, false)
}

// OpenWithRecovery implements [DocumentService].
func (s *documentService) OpenWithRecovery(ctx context.Context, container []byte, recoverySecret string) ([]byte, error) {
	return s.open(ctx, container, recoverySecret, true)
}

// Rotate implements [DocumentService].
func (s *documentService) Rotate(ctx context.Context, container []byte, oldPassword, newPassword string) ([]byte, error) {
	return s.rewrapPassword(ctx, container, oldPassword, false, newPassword)
}

// RotateWithRecovery implements [DocumentService].
func (s *documentService) RotateWithRecovery(ctx context.Context, container []byte, recoverySecret, newPassword string) ([]byte, error) {
	return s.rewrapPassword(ctx, container, recoverySecret, true, newPassword)
}

// ReissueRecovery implements [DocumentService].
func (s *documentService) ReissueRecovery(ctx context.Context, container []byte, password string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	c, contentKey, err := s.unlock(container, password, false)
	if err != nil {
		return nil, "", err
	}
	defer crypto.Zero(contentKey)

	newSecret, err := s.escrow.GenerateRecoverySecret()
	if err != nil {
		return nil, "", fmt.Errorf("generate recovery secret: %w", err)
	}

	c.RecoverySalt, c.RecoveryWrapIV, c.RecoveryWrappedKey, err = s.escrow.Wrap(contentKey, []byte(newSecret))
	if err != nil {
		return nil, "", fmt.Errorf("rewrap under new recovery secret: %w", err)
	}

	data, err := s.finalize(c, contentKey)
	if err != nil {
		return nil, "", err
	}
	return data, newSecret, nil
}

// open parses the container, unwraps the content key via the chosen path,
// verifies the integrity tag and only then decrypts the content.
func (s *documentService) open(ctx context.Context, container []byte, credential string, viaRecovery bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, contentKey, err := s.unlock(container, credential, viaRecovery)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(contentKey)

	plaintext, err := s.cipher.Decrypt(c.Content, contentKey, c.ContentIV)
	if err != nil {
		// The tag already verified, so this indicates corruption the tag
		// could not have missed; treat it the same as a bad credential
		// rather than leaking a distinct failure shape.
		return nil, models.ErrWrongCredential
	}
	return plaintext, nil
}

// rewrapPassword replaces the password wrap block, leaving the recovery
// block and the content ciphertext intact.
func (s *documentService) rewrapPassword(ctx context.Context, container []byte, credential string, viaRecovery bool, newPassword string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, contentKey, err := s.unlock(container, credential, viaRecovery)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(contentKey)

	c.PasswordSalt, c.PasswordWrapIV, c.PasswordWrappedKey, err = s.escrow.Wrap(contentKey, []byte(newPassword))
	if err != nil {
		return nil, fmt.Errorf("rewrap under new password: %w", err)
	}

	return s.finalize(c, contentKey)
}

// unlock parses container bytes, unwraps the content key using credential on
// the requested path and verifies the integrity tag. On success the caller
// owns the returned key and must zeroize it.
func (s *documentService) unlock(container []byte, credential string, viaRecovery bool) (*models.Container, []byte, error) {
	var c models.Container
	if err := c.UnmarshalBinary(container); err != nil {
		return nil, nil, err
	}

	credBytes := []byte(credential)
	defer crypto.Zero(credBytes)

	var contentKey []byte
	var err error
	if viaRecovery {
		contentKey, err = s.escrow.Unwrap(c.RecoverySalt, c.RecoveryWrapIV, c.RecoveryWrappedKey, credBytes)
	} else {
		contentKey, err = s.escrow.Unwrap(c.PasswordSalt, c.PasswordWrapIV, c.PasswordWrappedKey, credBytes)
	}
	if err != nil {
		return nil, nil, models.ErrWrongCredential
	}

	if err := s.verifyTag(&c, contentKey); err != nil {
		crypto.Zero(contentKey)
		return nil, nil, err
	}
	return &c, contentKey, nil
}

// finalize computes the integrity tag over the container payload and returns
// the full serialized container.
func (s *documentService) finalize(c *models.Container, contentKey []byte) ([]byte, error) {
	payload, err := c.Payload()
	if err != nil {
		return nil, err
	}

	tagKey := s.escrow.IntegrityKey(contentKey)
	defer crypto.Zero(tagKey)

	c.Tag = computeTag(tagKey, payload)
	return c.MarshalBinary()
}

func (s *documentService) verifyTag(c *models.Container, contentKey []byte) error {
	payload, err := c.Payload()
	if err != nil {
		return err
	}

	tagKey := s.escrow.IntegrityKey(contentKey)
	defer crypto.Zero(tagKey)

	if !hmac.Equal(c.Tag, computeTag(tagKey, payload)) {
		return models.ErrWrongCredential
	}
	return nil
}

// assemble builds an untagged container from fresh key material.
func (s *documentService) assemble(contentKey, plaintext []byte, password, secret string) (*models.Container, error) {
	passwordBytes := []byte(password)
	defer crypto.Zero(passwordBytes)

	c := &models.Container{}
	var err error

	c.PasswordSalt, c.PasswordWrapIV, c.PasswordWrappedKey, err = s.escrow.Wrap(contentKey, passwordBytes)
	if err != nil {
		return nil, fmt.Errorf("wrap under password: %w", err)
	}

	secretBytes := []byte(secret)
	defer crypto.Zero(secretBytes)
	c.RecoverySalt, c.RecoveryWrapIV, c.RecoveryWrappedKey, err = s.escrow.Wrap(contentKey, secretBytes)
	if err != nil {
		return nil, fmt.Errorf("wrap under recovery secret: %w", err)
	}

	c.ContentIV, c.Content, err = s.cipher.Encrypt(plaintext, contentKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt content: %w", err)
	}

	return c, nil
}

// computeTag computes the HMAC-SHA256 integrity tag of payload under key.
func computeTag(key, payload []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return mac.Sum(nil)
}
