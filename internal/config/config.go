package config

import (
	"encoding/json"
	"fmt"
)

// Config is the server configuration the client ships inside
// initializationOptions. Fields left out keep their defaults.
type Config struct {
	// CompilerArgs are forwarded to the backend with every query.
	CompilerArgs []string `json:"compiler_args"`
	// MaxResults caps the item count per completion response; zero
	// means unlimited.
	MaxResults int `json:"max_results"`
	// TriggerCharacters are advertised to the client for completion.
	TriggerCharacters []string `json:"trigger_characters"`
}

var defaultConfig = Config{
	MaxResults:        200,
	TriggerCharacters: []string{".", "("},
}

// Load merges initializationOptions over the defaults. Only fields
// present in the source overwrite.
func Load(v any) (Config, error) {
	cfg := defaultConfig

	if v == nil {
		return cfg, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}
	return cfg, nil
}
