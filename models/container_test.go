package models

import (
	"bytes"
	"errors"
	"testing"
)

func validContainer() *Container {
	return &Container{
		PasswordSalt:       bytes.Repeat([]byte{0x01}, 16),
		PasswordWrapIV:     bytes.Repeat([]byte{0x02}, 16),
		PasswordWrappedKey: bytes.Repeat([]byte{0x03}, 48),
		RecoverySalt:       bytes.Repeat([]byte{0x04}, 16),
		RecoveryWrapIV:     bytes.Repeat([]byte{0x05}, 16),
		RecoveryWrappedKey: bytes.Repeat([]byte{0x06}, 48),
		ContentIV:          bytes.Repeat([]byte{0x07}, 16),
		Content:            bytes.Repeat([]byte{0x08}, 64),
		Tag:                bytes.Repeat([]byte{0x09}, 32),
	}
}

func TestContainer_MarshalUnmarshalRoundTrip(t *testing.T) {
	c := validContainer()

	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error: %v", err)
	}

	var got Container
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary error: %v", err)
	}

	for name, pair := range map[string][2][]byte{
		"password salt":        {c.PasswordSalt, got.PasswordSalt},
		"password wrap iv":     {c.PasswordWrapIV, got.PasswordWrapIV},
		"password wrapped key": {c.PasswordWrappedKey, got.PasswordWrappedKey},
		"recovery salt":        {c.RecoverySalt, got.RecoverySalt},
		"recovery wrap iv":     {c.RecoveryWrapIV, got.RecoveryWrapIV},
		"recovery wrapped key": {c.RecoveryWrappedKey, got.RecoveryWrappedKey},
		"content iv":           {c.ContentIV, got.ContentIV},
		"content":              {c.Content, got.Content},
		"tag":                  {c.Tag, got.Tag},
	} {
		if !bytes.Equal(pair[0], pair[1]) {
			t.Fatalf("%s differs after round trip", name)
		}
	}
}

func TestContainer_PayloadIsEncodingPrefix(t *testing.T) {
	c := validContainer()

	payload, err := c.Payload()
	if err != nil {
		t.Fatalf("Payload error: %v", err)
	}
	full, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error: %v", err)
	}

	if len(full) != len(payload)+TagSize {
		t.Fatalf("full length = %d, want payload %d + tag %d", len(full), len(payload), TagSize)
	}
	if !bytes.Equal(full[:len(payload)], payload) {
		t.Fatalf("payload is not a prefix of the full encoding")
	}
	if !bytes.Equal(full[len(payload):], c.Tag) {
		t.Fatalf("encoding does not end with the tag")
	}
}

func TestContainer_UnmarshalRejectsBadMagicAndVersion(t *testing.T) {
	c := validContainer()
	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error: %v", err)
	}

	bad := append([]byte(nil), data...)
	bad[0] ^= 0xFF
	var got Container
	if err := got.UnmarshalBinary(bad); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("bad magic: err = %v, want ErrMalformedContainer", err)
	}

	bad = append([]byte(nil), data...)
	bad[4] = 0xFE // version byte
	if err := got.UnmarshalBinary(bad); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("bad version: err = %v, want ErrMalformedContainer", err)
	}
}

func TestContainer_UnmarshalRejectsTruncationAnywhere(t *testing.T) {
	c := validContainer()
	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error: %v", err)
	}

	for cut := 0; cut < len(data); cut++ {
		var got Container
		if err := got.UnmarshalBinary(data[:cut]); !errors.Is(err, ErrMalformedContainer) {
			t.Fatalf("truncated at %d: err = %v, want ErrMalformedContainer", cut, err)
		}
	}
}

func TestContainer_UnmarshalRejectsTrailingBytes(t *testing.T) {
	c := validContainer()
	data, err := c.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary error: %v", err)
	}

	var got Container
	if err := got.UnmarshalBinary(append(data, 0x00)); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("trailing byte: err = %v, want ErrMalformedContainer", err)
	}
}

func TestContainer_MarshalRejectsInvalidFields(t *testing.T) {
	c := validContainer()
	c.PasswordSalt = c.PasswordSalt[:8]
	if _, err := c.MarshalBinary(); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("short salt: err = %v, want ErrMalformedContainer", err)
	}

	c = validContainer()
	c.Content = nil
	if _, err := c.MarshalBinary(); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("empty content: err = %v, want ErrMalformedContainer", err)
	}

	c = validContainer()
	c.Tag = c.Tag[:16]
	if _, err := c.MarshalBinary(); !errors.Is(err, ErrMalformedContainer) {
		t.Fatalf("short tag: err = %v, want ErrMalformedContainer", err)
	}
}
