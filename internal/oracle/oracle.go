// Package oracle defines the text-generation contract consumed by the
// validators and refiners, plus the concrete LLM-backed implementations.
// Callers must treat every Generate call as fallible and degrade to a
// negative result instead of propagating the failure.
package oracle

import "context"

// Oracle turns a natural-language instruction into freeform text.
type Oracle interface {
	Name() string
	Generate(ctx context.Context, instruction string) (string, error)
}

// Config carries the connection settings shared by oracle backends.
type Config struct {
	Model   string `mapstructure:"model" json:"model"`
	BaseURL string `mapstructure:"base_url" json:"base_url"`
	APIKey  string `mapstructure:"api_key" json:"api_key"`
}
