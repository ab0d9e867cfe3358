package models

import "time"

// Document is one catalog entry describing a sealed container on disk.
// The catalog holds metadata only: no plaintext, no key material and no
// recovery secrets ever reach it.
type Document struct {
	// ID is the stable UUID of the document, assigned at first seal.
	ID string

	// Name is the caller-facing document name, unique within the catalog.
	Name string

	// Path is the filesystem location of the container file.
	Path string

	// Size is the container size in bytes as of the last seal or rotation.
	Size int64

	// CreatedAt is when the document was first sealed.
	CreatedAt time.Time

	// UpdatedAt is when the container was last rewritten (seal or rotation).
	UpdatedAt time.Time
}
