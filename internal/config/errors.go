package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings (for
	// example, an empty vault directory or an in-memory catalog DSN, which
	// would lose the catalog on every exit).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidLoggingConfigs indicates an unparseable log level.
	ErrInvalidLoggingConfigs = errors.New("invalid logging configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a non-positive worker count).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
