package anvilcfg_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvil-lang/anvil/anvilcfg"
)

func TestDefaultSetsBuiltinJoinType(t *testing.T) {
	cfg := anvilcfg.Default()
	assert.Equal(t, "inner", cfg.DefaultJoinType)
	assert.Empty(t, cfg.LogLevel)
}

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anvil.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\ndefault_join_type: outer\nformat_overrides:\n  tsv: csv\n"), 0644))

	cfg, err := anvilcfg.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "outer", cfg.DefaultJoinType)

	format, ok := cfg.ResolveFormat("tsv")
	require.True(t, ok)
	assert.Equal(t, "csv", format)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := anvilcfg.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolveFormatOnNilConfig(t *testing.T) {
	var cfg *anvilcfg.Config
	_, ok := cfg.ResolveFormat("tsv")
	assert.False(t, ok)
}

func TestResolveFormatUnknownExtension(t *testing.T) {
	cfg := anvilcfg.Default()
	_, ok := cfg.ResolveFormat("parquet")
	assert.False(t, ok)
}
