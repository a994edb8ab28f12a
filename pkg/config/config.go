package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/nspcc-dev/mptrie/pkg/core/storage/dbconfig"
	"github.com/nspcc-dev/mptrie/pkg/crypto/hash"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config file.
	DefaultConfigPath = "./config/mptrie.yml"
	// DefaultNodeCacheSize is the default number of decoded trie nodes kept in memory.
	DefaultNodeCacheSize = 4096
)

// Version is the version of the tool, set at build time.
var Version string

// Config top level struct representing the config for the tool.
type Config struct {
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// Default returns the configuration used when no file is given: in-memory
// store, Keccak256 digests and info logging.
func Default() Config {
	return Config{
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
			DBConfiguration: dbconfig.DBConfiguration{
				Type: dbconfig.InMemoryDB,
			},
			Trie: TrieConfiguration{
				Hasher:        hash.Keccak256Name,
				NodeCacheSize: DefaultNodeCacheSize,
			},
		},
	}
}

// Load attempts to load the config from the given path, the default
// configuration is returned for an empty path.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads config from the provided path. Unset values are filled
// with defaults.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.ApplicationConfiguration.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}
