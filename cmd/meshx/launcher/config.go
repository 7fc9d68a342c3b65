// Package launcher wires the meshx CLI to the PoP² validator core. It owns
// the peripheral glue only: configuration files, log setup, the simulated
// fakenet mesh, and human-readable status output. No validation logic lives
// here; the launcher is strictly an external caller of the pop packages.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RealHaywoodJ/meshx-device-mesh/meshx"
	"github.com/RealHaywoodJ/meshx-device-mesh/tee"
)

// Config is the on-disk node configuration.
type Config struct {
	DataDir       string        `yaml:"datadir"`
	Network       string        `yaml:"network"` // main|test|fake
	TEEType       tee.Type      `yaml:"tee_type"`
	Preset        string        `yaml:"preset"`
	MinValidators int           `yaml:"min_validators"`
	EpochInterval time.Duration `yaml:"epoch_interval"`
	NodeKey       string        `yaml:"node_key"` // hex public key, written by init

	Location LocationConfig `yaml:"location"`
}

// LocationConfig is the operator-declared coordinate of the device.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	AccuracyM float32 `yaml:"accuracy_meters"`
}

// DefaultConfig returns the baseline configuration before file and flag
// overrides.
func DefaultConfig() Config {
	return Config{
		DataDir:       "~/.meshx",
		Network:       "test",
		TEEType:       tee.IntelSGX,
		Preset:        "workstation",
		MinValidators: 4,
		EpochInterval: 10 * time.Second,
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Rules resolves the configured network name to its protocol rules.
func (c Config) Rules() (meshx.Rules, error) {
	switch c.Network {
	case "main":
		return meshx.MainNetRules(), nil
	case "test":
		return meshx.TestNetRules(), nil
	case "fake":
		return meshx.FakeNetRules(), nil
	default:
		return meshx.Rules{}, fmt.Errorf("unknown network %q (valid: main, test, fake)", c.Network)
	}
}
