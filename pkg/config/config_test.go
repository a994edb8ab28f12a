package config

import (
	"testing"

	"github.com/nspcc-dev/mptrie/pkg/core/storage/dbconfig"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
		require.NoError(t, cfg.ApplicationConfiguration.Validate())
	})
	t.Run("Valid", func(t *testing.T) {
		cfg, err := Load("./testdata/valid.yml")
		require.NoError(t, err)
		a := cfg.ApplicationConfiguration
		require.Equal(t, "debug", a.LogLevel)
		require.Equal(t, dbconfig.LevelDB, a.DBConfiguration.Type)
		require.Equal(t, "./chains/trie", a.DBConfiguration.LevelDBOptions.DataDirectoryPath)
		require.Equal(t, "sha256", a.Trie.Hasher)
		require.Equal(t, DefaultNodeCacheSize, a.Trie.NodeCacheSize)
		require.True(t, a.Prometheus.Enabled)
		require.Equal(t, []string{":2112"}, a.Prometheus.GetAddresses())
	})
	t.Run("Missing", func(t *testing.T) {
		_, err := Load("./testdata/missing.yml")
		require.Error(t, err)
	})
	t.Run("UnknownField", func(t *testing.T) {
		_, err := Load("./testdata/unknown_field.yml")
		require.Error(t, err)
	})
	t.Run("BadHasher", func(t *testing.T) {
		_, err := Load("./testdata/bad_hasher.yml")
		require.Error(t, err)
	})
}

func TestApplicationConfiguration_Validate(t *testing.T) {
	cfg := Default().ApplicationConfiguration
	cfg.Prometheus.Enabled = true
	require.Error(t, cfg.Validate())

	cfg = Default().ApplicationConfiguration
	cfg.Trie.NodeCacheSize = -1
	require.Error(t, cfg.Validate())
}
