package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// ContainerMagic identifies sealed document containers (ASCII "DVLT").
	ContainerMagic = uint32(0x44564C54)

	// ContainerVersion is the current container format version.
	ContainerVersion = uint8(1)

	// containerSaltSize and containerIVSize are fixed by format version 1.
	containerSaltSize = 16
	containerIVSize   = 16

	// TagSize is the length of the HMAC-SHA256 integrity tag.
	TagSize = 32

	// maxWrappedKeySize bounds the length-prefixed wrapped key blocks; a
	// 32-byte key under AES-CBC with PKCS#7 padding is 48 bytes, so anything
	// past one extra block is structural corruption.
	maxWrappedKeySize = 64
)

// Container is the complete persisted structure of one sealed document.
// It is immutable once sealed: opening never mutates it. The recovery secret
// itself is never part of a Container, only the key material wrapped under it.
//
// The on-disk encoding is little-endian:
//
//	magic             4 bytes
//	version           1 byte
//	password salt    16 bytes
//	password wrap IV 16 bytes
//	wrapped key       2-byte length prefix + bytes (password wrap)
//	recovery salt    16 bytes
//	recovery wrap IV 16 bytes
//	wrapped key       2-byte length prefix + bytes (recovery wrap)
//	content IV       16 bytes
//	content           4-byte length prefix + ciphertext
//	tag              32 bytes (HMAC-SHA256 over all preceding bytes)
type Container struct {
	// PasswordSalt is the derivation salt of the password-wrap key.
	PasswordSalt []byte

	// PasswordWrapIV is the IV of the password-wrapped content key.
	PasswordWrapIV []byte

	// PasswordWrappedKey is the content key encrypted under the
	// password-derived key.
	PasswordWrappedKey []byte

	// RecoverySalt is the derivation salt of the recovery-wrap key.
	RecoverySalt []byte

	// RecoveryWrapIV is the IV of the recovery-wrapped content key.
	RecoveryWrapIV []byte

	// RecoveryWrappedKey is the content key encrypted under the
	// recovery-derived key.
	RecoveryWrappedKey []byte

	// ContentIV is the IV of the document ciphertext.
	ContentIV []byte

	// Content is the document ciphertext.
	Content []byte

	// Tag is the integrity tag over every other encoded field. A container
	// with a wrong-length tag is malformed; a container with a non-verifying
	// tag is opened with a wrong credential or was tampered with.
	Tag []byte
}

// Payload encodes every container field except the tag, in on-disk order.
// The result is both the tag input and the prefix of the full encoding.
func (c *Container) Payload() ([]byte, error) {
	if err := c.validateFields(); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, ContainerMagic)
	binary.Write(buf, binary.LittleEndian, ContainerVersion)

	buf.Write(c.PasswordSalt)
	buf.Write(c.PasswordWrapIV)
	binary.Write(buf, binary.LittleEndian, uint16(len(c.PasswordWrappedKey)))
	buf.Write(c.PasswordWrappedKey)

	buf.Write(c.RecoverySalt)
	buf.Write(c.RecoveryWrapIV)
	binary.Write(buf, binary.LittleEndian, uint16(len(c.RecoveryWrappedKey)))
	buf.Write(c.RecoveryWrappedKey)

	buf.Write(c.ContentIV)
	binary.Write(buf, binary.LittleEndian, uint32(len(c.Content)))
	buf.Write(c.Content)

	return buf.Bytes(), nil
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (c *Container) MarshalBinary() ([]byte, error) {
	payload, err := c.Payload()
	if err != nil {
		return nil, err
	}
	if len(c.Tag) != TagSize {
		return nil, fmt.Errorf("%w: tag length %d", ErrMalformedContainer, len(c.Tag))
	}
	return append(payload, c.Tag...), nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. Any structural
// problem (wrong magic, unsupported version, truncation, trailing bytes,
// oversized wrapped key blocks) yields [ErrMalformedContainer].
func (c *Container) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return fmt.Errorf("%w: reading magic: %w", ErrMalformedContainer, err)
	}
	if magic != ContainerMagic {
		return fmt.Errorf("%w: bad magic 0x%08X", ErrMalformedContainer, magic)
	}

	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: reading version: %w", ErrMalformedContainer, err)
	}
	if version != ContainerVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrMalformedContainer, version)
	}

	var err error
	if c.PasswordSalt, err = readFixed(r, containerSaltSize); err != nil {
		return fmt.Errorf("%w: password salt: %w", ErrMalformedContainer, err)
	}
	if c.PasswordWrapIV, err = readFixed(r, containerIVSize); err != nil {
		return fmt.Errorf("%w: password wrap iv: %w", ErrMalformedContainer, err)
	}
	if c.PasswordWrappedKey, err = readWrappedKey(r); err != nil {
		return fmt.Errorf("%w: password wrapped key: %w", ErrMalformedContainer, err)
	}

	if c.RecoverySalt, err = readFixed(r, containerSaltSize); err != nil {
		return fmt.Errorf("%w: recovery salt: %w", ErrMalformedContainer, err)
	}
	if c.RecoveryWrapIV, err = readFixed(r, containerIVSize); err != nil {
		return fmt.Errorf("%w: recovery wrap iv: %w", ErrMalformedContainer, err)
	}
	if c.RecoveryWrappedKey, err = readWrappedKey(r); err != nil {
		return fmt.Errorf("%w: recovery wrapped key: %w", ErrMalformedContainer, err)
	}

	if c.ContentIV, err = readFixed(r, containerIVSize); err != nil {
		return fmt.Errorf("%w: content iv: %w", ErrMalformedContainer, err)
	}

	var contentLen uint32
	if err := binary.Read(r, binary.LittleEndian, &contentLen); err != nil {
		return fmt.Errorf("%w: content length: %w", ErrMalformedContainer, err)
	}
	if uint64(r.Len()) != uint64(contentLen)+TagSize {
		return fmt.Errorf("%w: %d bytes remain for %d of content plus tag", ErrMalformedContainer, r.Len(), contentLen)
	}
	if c.Content, err = readFixed(r, int(contentLen)); err != nil {
		return fmt.Errorf("%w: content: %w", ErrMalformedContainer, err)
	}
	if c.Tag, err = readFixed(r, TagSize); err != nil {
		return fmt.Errorf("%w: tag: %w", ErrMalformedContainer, err)
	}

	return nil
}

func (c *Container) validateFields() error {
	switch {
	case len(c.PasswordSalt) != containerSaltSize,
		len(c.PasswordWrapIV) != containerIVSize,
		len(c.RecoverySalt) != containerSaltSize,
		len(c.RecoveryWrapIV) != containerIVSize,
		len(c.ContentIV) != containerIVSize:
		return fmt.Errorf("%w: bad salt or iv length", ErrMalformedContainer)
	case len(c.PasswordWrappedKey) == 0 || len(c.PasswordWrappedKey) > maxWrappedKeySize,
		len(c.RecoveryWrappedKey) == 0 || len(c.RecoveryWrappedKey) > maxWrappedKeySize:
		return fmt.Errorf("%w: bad wrapped key length", ErrMalformedContainer)
	case len(c.Content) == 0:
		return fmt.Errorf("%w: empty content", ErrMalformedContainer)
	}
	return nil
}

func readFixed(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readWrappedKey(r io.Reader) ([]byte, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 || n > maxWrappedKeySize {
		return nil, fmt.Errorf("wrapped key length %d out of range", n)
	}
	return readFixed(r, int(n))
}
