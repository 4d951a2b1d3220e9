package config

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint identifies the effective configuration. Cached results are
// only reused under an identical fingerprint. ConfigFile is excluded, so
// moving a config file without changing it keeps the cache warm.
func (c *Config) Fingerprint() (string, error) {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// TOML renders the effective configuration in config-file syntax.
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
