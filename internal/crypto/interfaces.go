package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyDerivationService stretches a low-entropy secret (a user password or a
// recovery secret) plus a random salt into a fixed-length symmetric key.
// It knows nothing about containers, files or users.
//
// Derivation is deterministic: the same (secret, salt) pair always yields the
// same key. Stretching cost is fixed by the container format (see
// [KDFIterations]) and is not configurable at runtime.
type KeyDerivationService interface {
	// GenerateSalt returns a fresh random salt (16 bytes / 128 bits).
	// Salts are not secret; they are stored in the container in the clear.
	GenerateSalt() ([]byte, error)

	// DeriveKey derives a 32-byte (256-bit) key from secret and salt using
	// PBKDF2-HMAC-SHA256. An empty secret is accepted; rejecting weak
	// passwords is the caller's policy, not this layer's.
	DeriveKey(secret, salt []byte) []byte
}

// ContentCipherService encrypts and decrypts opaque byte payloads with
// AES-256-CBC and PKCS#7 padding.
//
// This layer carries no authenticity check of its own: decrypting with the
// wrong key or tampered ciphertext yields a padding error at best and garbage
// at worst. Tamper detection belongs to the container integrity tag, which is
// verified before any content decryption is attempted.
type ContentCipherService interface {
	// Encrypt encrypts plaintext under a 32-byte key. A fresh random 16-byte
	// IV is generated on every call and returned alongside the ciphertext;
	// an IV is never reused with the same key.
	Encrypt(plaintext, key []byte) (iv, ciphertext []byte, err error)

	// Decrypt reverses Encrypt. It fails on invalid key/IV lengths, on
	// ciphertext that is not a positive multiple of the block size, and on
	// padding that does not verify after decryption.
	Decrypt(ciphertext, key, iv []byte) ([]byte, error)
}

// RecoveryEscrowService generates and escrows the random content key that
// protects a document. The content key is wrapped (encrypted) under keys
// derived from the user password and from a one-time recovery secret, so
// either credential can recover it.
//
// Only the small fixed-size key material is escrowed, never the document
// itself: re-wrapping under a new credential never touches bulk ciphertext.
type RecoveryEscrowService interface {
	// GenerateContentKey returns a fresh random 32-byte content key.
	GenerateContentKey() ([]byte, error)

	// GenerateRecoverySecret returns a fresh high-entropy recovery secret:
	// 16 random bytes in URL-safe base64. It is handed to the caller exactly
	// once for out-of-band safekeeping and is never logged or persisted.
	GenerateRecoverySecret() (string, error)

	// Wrap derives a wrapping key from secret with a fresh independent salt
	// and encrypts contentKey under it with a fresh IV.
	Wrap(contentKey, secret []byte) (salt, iv, wrapped []byte, err error)

	// Unwrap reverses Wrap. A wrong secret fails with a padding error from
	// the underlying cipher; callers must still verify the container
	// integrity tag before trusting the returned key.
	Unwrap(salt, iv, wrapped, secret []byte) ([]byte, error)

	// IntegrityKey derives the HMAC key used for the container integrity
	// tag from contentKey. The fixed label domain-separates the tag key from
	// the content key itself.
	IntegrityKey(contentKey []byte) []byte
}
