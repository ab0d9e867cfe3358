package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
)

// contentCipherService is the private implementation of
// [ContentCipherService]: AES-256-CBC with PKCS#7 padding.
type contentCipherService struct{}

// NewContentCipherService constructs a [ContentCipherService].
func NewContentCipherService() ContentCipherService {
	return &contentCipherService{}
}

// Encrypt implements [ContentCipherService].
func (c *contentCipherService) Encrypt(plaintext, key []byte) ([]byte, []byte, error) {
	if len(key) != KeySize {
		return nil, nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return iv, ciphertext, nil
}

// Decrypt implements [ContentCipherService].
func (c *contentCipherService) Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	if len(iv) != aes.BlockSize {
		return nil, ErrInvalidIVLength
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		Zero(padded)
		return nil, err
	}
	return plaintext, nil
}

// pkcs7Pad appends 1..blockSize padding bytes, each holding the pad length.
// Padding is always applied, so the output length is a positive multiple of
// blockSize even for empty input.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(append(make([]byte, 0, len(data)+padLen), data...),
		bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad validates and strips PKCS#7 padding.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidCiphertext
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}
