package config

import (
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// LoadWithOverrides loads configuration for a target path with CLI overrides
// applied last. configPath, when non-empty, bypasses discovery.
//
// Overrides use the same nested shape as the TOML config file:
//
//	overrides := map[string]any{
//	  "output": map[string]any{"format": "json"},
//	  "lint":   map[string]any{"select": []string{"GN"}},
//	}
func LoadWithOverrides(targetPath, configPath string, overrides map[string]any) (*Config, error) {
	if configPath == "" {
		configPath = Discover(targetPath)
	}
	return loadWithConfigPath(configPath, overrides)
}

func loadOverrides(k *koanf.Koanf, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(overrides, ""), nil)
}

// Set adds a nested override for a dotted key such as "lint.select".
func Set(overrides map[string]any, key string, value any) {
	cur := overrides
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}
