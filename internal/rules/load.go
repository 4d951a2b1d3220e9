package rules

import "github.com/bolajiwahab/pgrubic-sub001/internal/config"

// LoadRules returns fresh instances of the rules selected by the lint
// configuration, sorted by code.
func LoadRules(cfg *config.Config) ([]Rule, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	return defaultRegistry.Select(cfg.Lint.Select, cfg.Lint.Ignore)
}
