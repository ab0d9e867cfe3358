package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags so a config
// file can use the same shape as the rest of the sources.
type StructuredJSONConfig struct {
	App struct {
		ClipboardEnabled bool   `json:"clipboard"`
		Version          string `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		Vault struct {
			Dir string `json:"dir"`
		} `json:"vault,omitempty"`

		Catalog struct {
			DSN string `json:"dsn"`
		} `json:"catalog,omitempty"`
	} `json:"storage,omitempty"`

	Logging struct {
		Level string `json:"level"`
		File  string `json:"file"`
	} `json:"logging,omitempty"`

	Workers struct {
		Count int `json:"count"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			ClipboardEnabled: jsonCfg.App.ClipboardEnabled,
			Version:          jsonCfg.App.Version,
		},
		Storage: Storage{
			Vault:   Vault{Dir: jsonCfg.Storage.Vault.Dir},
			Catalog: Catalog{DSN: jsonCfg.Storage.Catalog.DSN},
		},
		Logging: Logging{
			Level: jsonCfg.Logging.Level,
			File:  jsonCfg.Logging.File,
		},
		Workers:      Workers{Count: jsonCfg.Workers.Count},
		JSONFilePath: "",
	}

	return cfg, nil
}
