package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// RecoverySecretSize is the raw entropy of a recovery secret in bytes.
// The secret shown to the user is the URL-safe base64 of these bytes.
const RecoverySecretSize = 16

// integrityKeyLabel domain-separates the container HMAC key from the content
// key it is derived from.
var integrityKeyLabel = []byte("docvault/integrity/v1")

// recoveryEscrowService is the private implementation of
// [RecoveryEscrowService]. Wrapping reuses the same KDF and cipher as the
// content path, so a wrapped key block is just a tiny ciphertext.
type recoveryEscrowService struct {
	kdf    KeyDerivationService
	cipher ContentCipherService
}

// NewRecoveryEscrowService constructs a [RecoveryEscrowService] on top of the
// given derivation and cipher services.
func NewRecoveryEscrowService(kdf KeyDerivationService, cipher ContentCipherService) RecoveryEscrowService {
	return &recoveryEscrowService{
		kdf:    kdf,
		cipher: cipher,
	}
}

// GenerateContentKey implements [RecoveryEscrowService]. It reads 32 random
// bytes from the OS CSPRNG. Returns an error if the random read fails.
func (e *recoveryEscrowService) GenerateContentKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// GenerateRecoverySecret implements [RecoveryEscrowService].
func (e *recoveryEscrowService) GenerateRecoverySecret() (string, error) {
	raw := make([]byte, RecoverySecretSize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	secret := base64.URLEncoding.EncodeToString(raw)
	Zero(raw)
	return secret, nil
}

// Wrap implements [RecoveryEscrowService]. The base64 text of a recovery
// secret (or the UTF-8 bytes of a password) is the derivation input; it is
// never decoded back to raw entropy.
func (e *recoveryEscrowService) Wrap(contentKey, secret []byte) ([]byte, []byte, []byte, error) {
	if len(contentKey) != KeySize {
		return nil, nil, nil, ErrInvalidKeyLength
	}

	salt, err := e.kdf.GenerateSalt()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("generate wrap salt: %w", err)
	}

	wrapKey := e.kdf.DeriveKey(secret, salt)
	defer Zero(wrapKey)

	iv, wrapped, err := e.cipher.Encrypt(contentKey, wrapKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("wrap content key: %w", err)
	}
	return salt, iv, wrapped, nil
}

// Unwrap implements [RecoveryEscrowService].
func (e *recoveryEscrowService) Unwrap(salt, iv, wrapped, secret []byte) ([]byte, error) {
	wrapKey := e.kdf.DeriveKey(secret, salt)
	defer Zero(wrapKey)

	contentKey, err := e.cipher.Decrypt(wrapped, wrapKey, iv)
	if err != nil {
		return nil, fmt.Errorf("unwrap content key: %w", err)
	}
	if len(contentKey) != KeySize {
		// Unpadding happened to succeed under a wrong key.
		Zero(contentKey)
		return nil, ErrInvalidPadding
	}
	return contentKey, nil
}

// IntegrityKey implements [RecoveryEscrowService]. It computes
// HMAC-SHA256(contentKey, label), giving the tag a key of its own even though
// only one secret value is escrowed.
func (e *recoveryEscrowService) IntegrityKey(contentKey []byte) []byte {
	mac := hmac.New(sha256.New, contentKey)
	mac.Write(integrityKeyLabel)
	return mac.Sum(nil)
}
