package config

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/mptrie/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
)

// ApplicationConfiguration config specific to the tool.
type ApplicationConfiguration struct {
	LogLevel        string                   `yaml:"LogLevel"`
	LogPath         string                   `yaml:"LogPath"`
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	Trie            TrieConfiguration        `yaml:"Trie"`
	Prometheus      BasicService             `yaml:"Prometheus"`
	Pprof           BasicService             `yaml:"Pprof"`
}

// TrieConfiguration contains trie engine parameters.
type TrieConfiguration struct {
	// Hasher is the name of the digest function, see hash.ByName.
	Hasher        string `yaml:"Hasher"`
	NodeCacheSize int    `yaml:"NodeCacheSize"`
}

// Validate checks ApplicationConfiguration for internal consistency and returns
// an error if any invalid settings are found.
func (a *ApplicationConfiguration) Validate() error {
	if _, err := hash.ByName(a.Trie.Hasher); err != nil {
		return fmt.Errorf("invalid Trie section: %w", err)
	}
	if a.Trie.NodeCacheSize < 0 {
		return errors.New("negative NodeCacheSize")
	}
	if a.Prometheus.Enabled && len(a.Prometheus.Addresses) == 0 {
		return errors.New("no bind addresses for enabled Prometheus service")
	}
	if a.Pprof.Enabled && len(a.Pprof.Addresses) == 0 {
		return errors.New("no bind addresses for enabled Pprof service")
	}
	return nil
}
