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
	"testing"

	"github.com/spf13/viper"
)

func TestFromConfig_FlagWins(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("oracle.model", "from-file")

	if got := fromConfig("from-flag", "oracle.model", "fallback"); got != "from-flag" {
		t.Errorf("expected the flag value to win, got %q", got)
	}
}

func TestFromConfig_ConfigThenFallback(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("oracle.model", "from-file")

	if got := fromConfig("", "oracle.model", "fallback"); got != "from-file" {
		t.Errorf("expected the config value, got %q", got)
	}
	if got := fromConfig("", "oracle.kind", "fallback"); got != "fallback" {
		t.Errorf("expected the fallback for an unset key, got %q", got)
	}
}

func TestFromConfigFloat_ConfigSuppliesThreshold(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("target_quality", 0.9)

	if got := fromConfigFloat(false, 0.8, "target_quality"); got != 0.9 {
		t.Errorf("expected the config threshold 0.9, got %v", got)
	}
}

func TestFromConfigFloat_SetFlagOverridesConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("target_quality", 0.9)

	if got := fromConfigFloat(true, 0.7, "target_quality"); got != 0.7 {
		t.Errorf("expected the flag to override the config file, got %v", got)
	}
}

func TestFromConfigInt_ConfigThenFlagDefault(t *testing.T) {
	t.Cleanup(viper.Reset)

	if got := fromConfigInt(false, 5, "max_iterations"); got != 5 {
		t.Errorf("expected the flag default without a config key, got %d", got)
	}

	viper.Set("max_iterations", 9)
	if got := fromConfigInt(false, 5, "max_iterations"); got != 9 {
		t.Errorf("expected the config iteration budget, got %d", got)
	}
	if got := fromConfigInt(true, 3, "max_iterations"); got != 3 {
		t.Errorf("expected the flag to override the config file, got %d", got)
	}
}

func TestFromConfigString_ConfigSuppliesDatabasePath(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db", "/var/lib/diwan/diwan.db")

	if got := fromConfigString(false, "./data/diwan.db", "db"); got != "/var/lib/diwan/diwan.db" {
		t.Errorf("expected the config database path, got %q", got)
	}
	if got := fromConfigString(true, "./other.db", "db"); got != "./other.db" {
		t.Errorf("expected the flag to override the config file, got %q", got)
	}
}
