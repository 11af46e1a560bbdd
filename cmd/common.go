/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/valpere/diwan/internal"
	"github.com/valpere/diwan/internal/oracle"
	"github.com/valpere/diwan/internal/verse"
)

// fromConfig resolves a setting: an explicit flag value wins, then the
// viper key (config file or DIWAN_* env), then the fallback.
func fromConfig(flagVal, key, fallback string) string {
	if flagVal != "" {
		return flagVal
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

// Flags with non-empty defaults cannot signal "unset" through their value;
// the variants below take the flag's Changed state instead, so the config
// file fills in whenever the user left the flag alone.

func fromConfigFloat(flagSet bool, flagVal float64, key string) float64 {
	if flagSet {
		return flagVal
	}
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	return flagVal
}

func fromConfigInt(flagSet bool, flagVal int, key string) int {
	if flagSet {
		return flagVal
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return flagVal
}

func fromConfigString(flagSet bool, flagVal, key string) string {
	if flagSet {
		return flagVal
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return flagVal
}

// buildOracle constructs the configured oracle backend.
func buildOracle(kind, model, baseURL, apiKey string) (oracle.Oracle, error) {
	switch kind {
	case "ollama":
		return oracle.NewOllama(model, baseURL), nil
	case "openai":
		return oracle.NewOpenAI(oracle.Config{Model: model, BaseURL: baseURL, APIKey: apiKey})
	default:
		return nil, fmt.Errorf("unknown oracle %q (supported: ollama, openai)", kind)
	}
}

// buildConstraints assembles the target constraints from the shared
// refinement flags.
func buildConstraints(meterKey, rhymeLetter, rhymeVocalization, rhymeFamily, rhymeExample string, baitCount int, theme, tone, register string) internal.Constraints {
	return internal.Constraints{
		Meter: meterKey,
		Qafiya: internal.Qafiya{
			Letter:       rhymeLetter,
			Vocalization: rhymeVocalization,
			Family:       rhymeFamily,
			Example:      rhymeExample,
		},
		BaitCount: baitCount,
		Theme:     theme,
		Tone:      tone,
		Register:  register,
	}
}

// loadPoem reads a poem file and segments it into verses.
func loadPoem(path, provider, model string, constraints internal.Constraints) (internal.Poem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return internal.Poem{}, fmt.Errorf("failed to read input file: %w", err)
	}

	verses := verse.Split(string(data))
	if len(verses) == 0 {
		return internal.Poem{}, fmt.Errorf("input file contains no verses")
	}

	return internal.Poem{
		ID:          uuid.New().String(),
		Verses:      verses,
		Provider:    provider,
		Model:       model,
		Constraints: constraints.Snapshot(),
		CreatedAt:   time.Now(),
	}, nil
}
