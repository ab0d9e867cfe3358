package models

import "errors"

// Error kinds shared by the container codec and the document services.
// Callers should use [errors.Is] to match against these values.
var (
	// ErrMalformedContainer is returned when container bytes cannot be
	// parsed: wrong magic, unsupported version, truncated fields or
	// trailing junk. It is never retried internally.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrWrongCredential is returned when a password or recovery secret
	// does not reproduce usable plaintext, or when the integrity tag does
	// not verify. A failed password attempt says nothing about the recovery
	// path and vice versa.
	ErrWrongCredential = errors.New("wrong credential")
)
