// Package anvilcfg loads the small set of ambient knobs that sit
// outside the pipeline language itself: default format-inference
// overrides, the log level, and extension points for embedding
// programs. The DAG compiler has no persistent configuration surface
// of its own (spec.md Non-goals rule out persistent catalogs); this is
// everything left over once the language's own grammar is taken out.
package anvilcfg

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config is Anvil's ambient configuration, loaded once per process
// (or per embedding program) and installed with tool.SetConfig.
type Config struct {
	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	// Empty means "use the logger's existing level".
	LogLevel string `yaml:"log_level"`

	// FormatOverrides maps a file extension (without the leading dot,
	// e.g. "tsv") to one of the table engine's format names, extending
	// the input()/register() tools' extension-based inference.
	FormatOverrides map[string]string `yaml:"format_overrides"`

	// DefaultJoinType is the join() tool's type when its keyword
	// argument is omitted; spec.md §4.4 fixes "inner" as the default,
	// this only lets an embedding program change that default without
	// forking the catalog.
	DefaultJoinType string `yaml:"default_join_type"`
}

// Default returns the zero-configuration Config matching the catalog's
// own built-in defaults.
func Default() *Config {
	return &Config{DefaultJoinType: "inner"}
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveFormat looks up ext in cfg's FormatOverrides, returning ok=false
// if cfg is nil or has no override for ext.
func (cfg *Config) ResolveFormat(ext string) (string, bool) {
	if cfg == nil || cfg.FormatOverrides == nil {
		return "", false
	}
	f, ok := cfg.FormatOverrides[ext]
	return f, ok
}
