// Package config provides configuration loading and discovery for pgrubic.
//
// Configuration is loaded from multiple sources with the following priority
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PGRUBIC_* prefix)
//  3. Config file (PGRUBIC_CONFIG_PATH, else the closest .pgrubic.toml or pgrubic.toml)
//  4. Built-in defaults
//
// Config file discovery walks up the filesystem from the target's directory
// until a config file is found. The closest config wins (no merging).
// A loaded Config is never mutated afterwards.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".pgrubic.toml", "pgrubic.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "PGRUBIC_"

// EnvConfigPath names the environment variable that bypasses discovery.
const EnvConfigPath = "PGRUBIC_CONFIG_PATH"

// Config represents the complete pgrubic configuration.
type Config struct {
	// Lint configures rule selection and rule options.
	Lint LintConfig `koanf:"lint" msgpack:"lint" toml:"lint"`

	// Format configures the formatter.
	Format FormatConfig `koanf:"format" msgpack:"format" toml:"format"`

	// Output configures output format and destination.
	Output OutputConfig `koanf:"output" msgpack:"output" toml:"output"`

	// Cache configures the result cache.
	Cache CacheConfig `koanf:"cache" msgpack:"cache" toml:"cache"`

	// Jobs bounds the number of files processed concurrently (0 = GOMAXPROCS).
	Jobs int `koanf:"jobs" msgpack:"jobs" toml:"jobs" validate:"min=0"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `koanf:"-" msgpack:"-" toml:"-"`
}

// Column describes a column every table must carry.
type Column struct {
	Name     string `koanf:"name" msgpack:"name" toml:"name" validate:"required"`
	DataType string `koanf:"data-type" msgpack:"data-type" toml:"data-type" validate:"required"`
}

// DisallowedObject names something that must not be used, with an optional
// replacement.
type DisallowedObject struct {
	Name       string `koanf:"name" msgpack:"name" toml:"name" validate:"required"`
	Reason     string `koanf:"reason" msgpack:"reason" toml:"reason,omitempty"`
	UseInstead string `koanf:"use-instead" msgpack:"use-instead" toml:"use-instead,omitempty"`
}

// LintConfig contains rule selection and rule options.
//
// Example TOML:
//
//	[lint]
//	select = ["GN", "CT001"]
//	ignore = ["NM*"]
//	required-columns = [{ name = "created_at", data-type = "timestamptz" }]
type LintConfig struct {
	// Select enables rules by code glob (prefix match). Empty selects all.
	Select []string `koanf:"select" msgpack:"select" toml:"select"`

	// Ignore disables rules by code glob.
	Ignore []string `koanf:"ignore" msgpack:"ignore" toml:"ignore"`

	// Include lists file globs to lint when discovering directories.
	Include []string `koanf:"include" msgpack:"include" toml:"include"`

	// Exclude lists file globs skipped during discovery.
	Exclude []string `koanf:"exclude" msgpack:"exclude" toml:"exclude"`

	// Fix enables fixes without --fix.
	Fix bool `koanf:"fix" msgpack:"fix" toml:"fix"`

	RequiredColumns     []Column           `koanf:"required-columns" msgpack:"required-columns" toml:"required-columns" validate:"dive"`
	DisallowedSchemas   []DisallowedObject `koanf:"disallowed-schemas" msgpack:"disallowed-schemas" toml:"disallowed-schemas" validate:"dive"`
	DisallowedDataTypes []DisallowedObject `koanf:"disallowed-data-types" msgpack:"disallowed-data-types" toml:"disallowed-data-types" validate:"dive"`

	// AllowedExtensions restricts CREATE EXTENSION. Empty allows all.
	AllowedExtensions []string `koanf:"allowed-extensions" msgpack:"allowed-extensions" toml:"allowed-extensions"`

	// AllowedLanguages restricts function languages. Empty allows all.
	AllowedLanguages []string `koanf:"allowed-languages" msgpack:"allowed-languages" toml:"allowed-languages"`

	RegexIndex                string `koanf:"regex-index" msgpack:"regex-index" toml:"regex-index" validate:"regexp"`
	RegexPartition            string `koanf:"regex-partition" msgpack:"regex-partition" toml:"regex-partition" validate:"regexp"`
	RegexSequence             string `koanf:"regex-sequence" msgpack:"regex-sequence" toml:"regex-sequence" validate:"regexp"`
	RegexConstraintPrimaryKey string `koanf:"regex-constraint-primary-key" msgpack:"regex-constraint-primary-key" toml:"regex-constraint-primary-key" validate:"regexp"`
	RegexConstraintUniqueKey  string `koanf:"regex-constraint-unique-key" msgpack:"regex-constraint-unique-key" toml:"regex-constraint-unique-key" validate:"regexp"`
	RegexConstraintForeignKey string `koanf:"regex-constraint-foreign-key" msgpack:"regex-constraint-foreign-key" toml:"regex-constraint-foreign-key" validate:"regexp"`
	RegexConstraintCheck      string `koanf:"regex-constraint-check" msgpack:"regex-constraint-check" toml:"regex-constraint-check" validate:"regexp"`
	RegexConstraintExclusion  string `koanf:"regex-constraint-exclusion" msgpack:"regex-constraint-exclusion" toml:"regex-constraint-exclusion" validate:"regexp"`
}

// FormatConfig configures the formatter.
type FormatConfig struct {
	// CommaAtBeginning places list commas at the start of lines.
	CommaAtBeginning bool `koanf:"comma-at-beginning" msgpack:"comma-at-beginning" toml:"comma-at-beginning"`

	// NewLineBeforeSemicolon puts the terminating semicolon on its own line.
	NewLineBeforeSemicolon bool `koanf:"new-line-before-semicolon" msgpack:"new-line-before-semicolon" toml:"new-line-before-semicolon"`

	// LineBreak is the line-break policy: none or clauses.
	LineBreak string `koanf:"line-break" msgpack:"line-break" toml:"line-break" validate:"oneof=none clauses"`

	// LinesBetweenStatements is the number of blank lines between statements.
	LinesBetweenStatements int `koanf:"lines-between-statements" msgpack:"lines-between-statements" toml:"lines-between-statements" validate:"min=0,max=10"`

	// Indent is the indent width. 0 defers to .editorconfig.
	Indent int `koanf:"indent" msgpack:"indent" toml:"indent" validate:"min=0,max=16"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format.
	Format string `koanf:"format" msgpack:"format" toml:"format" validate:"oneof=text json jsonl sarif github-actions markdown"`

	// Path specifies where to write output.
	Path string `koanf:"path" msgpack:"path" toml:"path"`

	// ShowSource enables source code snippets in text output.
	ShowSource bool `koanf:"show-source" msgpack:"show-source" toml:"show-source"`

	// FailLevel sets the minimum severity level that causes a non-zero exit code.
	FailLevel string `koanf:"fail-level" msgpack:"fail-level" toml:"fail-level" validate:"oneof=error warning info style none"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" msgpack:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" msgpack:"dir" toml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Lint: LintConfig{
			Select:                    []string{},
			Ignore:                    []string{},
			Include:                   []string{"**/*.sql"},
			Exclude:                   []string{},
			RequiredColumns:           []Column{},
			DisallowedSchemas:         []DisallowedObject{},
			DisallowedDataTypes:       []DisallowedObject{},
			AllowedExtensions:         []string{},
			AllowedLanguages:          []string{},
			RegexIndex:                "^[a-z0-9_]+_idx$",
			RegexPartition:            "^[a-z0-9_]+$",
			RegexSequence:             "^[a-z0-9_]+_seq$",
			RegexConstraintPrimaryKey: "^[a-z0-9_]+_pkey$",
			RegexConstraintUniqueKey:  "^[a-z0-9_]+_key$",
			RegexConstraintForeignKey: "^[a-z0-9_]+_fkey$",
			RegexConstraintCheck:      "^[a-z0-9_]+_check$",
			RegexConstraintExclusion:  "^[a-z0-9_]+_excl$",
		},
		Format: FormatConfig{
			LineBreak:              "clauses",
			LinesBetweenStatements: 1,
		},
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "style", // Any violation causes exit code 1
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".pgrubic_cache",
		},
	}
}

// Load loads configuration for a target path.
// It discovers the closest config file, loads it, and applies
// environment variable overrides.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(Discover(targetPath), nil)
}

// LoadFromFile loads configuration from a specific config file path.
// Unlike Load, it does not perform config discovery.
func LoadFromFile(configPath string) (*Config, error) {
	return loadWithConfigPath(configPath, nil)
}

func loadWithConfigPath(configPath string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, &Error{Path: configPath, Err: err}
	}

	// 2. Load config file if provided
	if err := loadConfigFile(k, configPath); err != nil {
		return nil, &Error{Path: configPath, Err: err}
	}

	// 3. Load environment variables (PGRUBIC_* prefix)
	// PGRUBIC_LINT_REGEX_INDEX -> lint.regex-index
	if err := loadEnv(k); err != nil {
		return nil, &Error{Path: configPath, Err: err}
	}

	// 4. CLI flags
	if err := loadOverrides(k, overrides); err != nil {
		return nil, &Error{Path: configPath, Err: err}
	}

	// 5. Validate merged raw config and decode.
	cfg, err := decodeConfig(k.Raw())
	if err != nil {
		return nil, &Error{Path: configPath, Err: err}
	}

	cfg.ConfigFile = configPath
	return cfg, nil
}

func loadConfigFile(k *koanf.Koanf, configPath string) error {
	if configPath == "" {
		return nil
	}
	return k.Load(file.Provider(configPath), toml.Parser())
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKeyTransform,
	}), nil)
}

var envSections = map[string]struct{}{
	"lint":   {},
	"format": {},
	"output": {},
	"cache":  {},
}

// envKeyTransform converts environment variable names to config keys.
// PGRUBIC_JOBS -> jobs
// PGRUBIC_LINT_REGEX_INDEX -> lint.regex-index
// PGRUBIC_OUTPUT_FAIL_LEVEL -> output.fail-level
// Unknown sections (including PGRUBIC_CONFIG_PATH) are ignored.
func envKeyTransform(k, v string) (string, any) {
	s := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	if s == "jobs" {
		return s, v
	}

	section, rest, ok := strings.Cut(s, "_")
	if !ok || rest == "" {
		return "", nil
	}
	if _, known := envSections[section]; !known {
		return "", nil
	}
	return section + "." + strings.ReplaceAll(rest, "_", "-"), v
}

// Discover finds the config file for a target path. PGRUBIC_CONFIG_PATH
// wins when set; otherwise it walks up the directory tree from the target,
// checking for config files at each level.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
