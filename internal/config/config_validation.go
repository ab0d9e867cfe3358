package config

import (
	"strings"

	"github.com/rs/zerolog"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.Vault.Dir == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.Catalog.DSN == "" || strings.Contains(cfg.Storage.Catalog.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return ErrInvalidLoggingConfigs
	}

	if cfg.Workers.Count < 1 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
