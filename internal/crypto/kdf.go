package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KDFIterations is the fixed PBKDF2 iteration count of container format
	// version 1. Changing it changes every derived key, so it is part of the
	// format, not a tunable: a new value requires a new format version.
	KDFIterations = 390_000

	// SaltSize is the salt length in bytes used for every derivation.
	SaltSize = 16

	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32
)

// kdfService is the private implementation of [KeyDerivationService].
type kdfService struct {
	iterations int
	keyLen     int
}

// NewKeyDerivationService constructs a [KeyDerivationService] using
// PBKDF2-HMAC-SHA256 with [KDFIterations] iterations and 32-byte output.
func NewKeyDerivationService() KeyDerivationService {
	return &kdfService{
		iterations: KDFIterations,
		keyLen:     KeySize,
	}
}

// GenerateSalt implements [KeyDerivationService]. It reads 16 random bytes
// from the OS CSPRNG. Returns an error if the random read fails.
func (k *kdfService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveKey implements [KeyDerivationService].
func (k *kdfService) DeriveKey(secret, salt []byte) []byte {
	return pbkdf2.Key(secret, salt, k.iterations, k.keyLen, sha256.New)
}
