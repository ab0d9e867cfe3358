package crypto

import "errors"

// Sentinel errors returned by the cipher and escrow layers. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrInvalidKeyLength is returned when a key is not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidIVLength is returned when an IV is not exactly one AES block.
	ErrInvalidIVLength = errors.New("invalid iv length")

	// ErrInvalidCiphertext is returned when a ciphertext is empty or not a
	// multiple of the AES block size, so CBC decryption cannot even start.
	ErrInvalidCiphertext = errors.New("invalid ciphertext length")

	// ErrInvalidPadding is returned when PKCS#7 padding does not verify
	// after decryption. With CBC this is the usual symptom of a wrong key;
	// it says nothing trustworthy on its own and must be backed by the
	// container integrity tag.
	ErrInvalidPadding = errors.New("invalid padding")
)
