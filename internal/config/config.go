package config

// StructuredConfig is the top-level configuration container for docvault.
// It aggregates all sub-configurations and is populated by merging values
// from CLI overrides, environment variables, an optional JSON file and
// built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"DOCVAULT_APP_"`

	// Storage holds configuration for the container file store and the
	// document catalog database.
	Storage Storage `envPrefix:"DOCVAULT_STORAGE_"`

	// Logging holds log output settings.
	Logging Logging `envPrefix:"DOCVAULT_LOG_"`

	// Workers holds configuration for background seal workers.
	Workers Workers `envPrefix:"DOCVAULT_WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged below the values
	// already loaded from overrides and environment variables.
	// Env: DOCVAULT_CONFIG
	JSONFilePath string `env:"DOCVAULT_CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// ClipboardEnabled controls whether freshly generated recovery secrets
	// are copied to the system clipboard in addition to being printed once.
	// Env: DOCVAULT_APP_CLIPBOARD
	ClipboardEnabled bool `env:"CLIPBOARD"`

	// Version is the semantic version string of the running application.
	// Env: DOCVAULT_APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all persistence backends.
type Storage struct {
	// Vault holds the container file store settings.
	Vault Vault `envPrefix:"VAULT_"`

	// Catalog holds the document catalog database settings.
	Catalog Catalog `envPrefix:"CATALOG_"`
}

// Vault holds file-system settings for the sealed container store.
type Vault struct {
	// Dir is the directory where sealed container files are kept.
	// Env: DOCVAULT_STORAGE_VAULT_DIR
	Dir string `env:"DIR"`
}

// Catalog contains connection settings for the local catalog database.
type Catalog struct {
	// DSN is the SQLite file path (or DSN) of the document catalog.
	// Env: DOCVAULT_STORAGE_CATALOG_DSN
	DSN string `env:"DSN"`
}

// Logging holds log output settings.
type Logging struct {
	// Level is the minimum emitted log level ("debug", "info", "warn",
	// "error"). Env: DOCVAULT_LOG_LEVEL
	Level string `env:"LEVEL"`

	// File is an optional log file path; empty means stderr.
	// Env: DOCVAULT_LOG_FILE
	File string `env:"FILE"`
}

// Workers holds configuration for background seal workers.
type Workers struct {
	// Count is the number of concurrent seal workers used for batch
	// operations. Env: DOCVAULT_WORKERS_COUNT
	Count int `env:"COUNT"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources. overrides carries the values the CLI layer collected
// from its own flags and takes the highest priority; it may be nil.
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig(overrides *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withOverrides(overrides).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
