package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges all collected sources in order. mergo keeps already-set
// destination fields, so earlier sources take priority over later ones.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withOverrides(overrides *StructuredConfig) *configBuilder {
	if overrides != nil {
		b.configs = append(b.configs, overrides)
	}
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string

	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
			break
		}
	}

	if jsonPath != "" {
		jsonCfg, err := parseJSON(jsonPath)
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		b.configs = append(b.configs, jsonCfg)
	}

	return b
}

// withDefaults appends the lowest-priority source: everything under
// ~/.docvault, info-level logging, four seal workers.
func (b *configBuilder) withDefaults() *configBuilder {
	home, err := os.UserHomeDir()
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("resolve home directory: %w", err))
		return b
	}
	base := filepath.Join(home, ".docvault")

	b.configs = append(b.configs, &StructuredConfig{
		App: App{
			ClipboardEnabled: false,
			Version:          "dev",
		},
		Storage: Storage{
			Vault:   Vault{Dir: filepath.Join(base, "vault")},
			Catalog: Catalog{DSN: filepath.Join(base, "catalog.db")},
		},
		Logging: Logging{Level: "info"},
		Workers: Workers{Count: 4},
	})
	return b
}
