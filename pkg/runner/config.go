package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gatekeeper/gatecheck/pkg/analysis"
	"github.com/gatekeeper/gatecheck/pkg/policy"
)

// Config mirrors the optional YAML configuration file. Unset fields
// fall back to defaults, so an empty file is a valid configuration.
type Config struct {
	Global GlobalConfig `yaml:"global"`
}

type GlobalConfig struct {
	// JSONOutput switches the stdout rendering to the JSON artifact.
	JSONOutput bool `yaml:"jsonOutput"`
	// BlockAt overrides the minimum blocking severity.
	BlockAt *analysis.Severity `yaml:"blockAt"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Global.BlockAt != nil {
		parsed, err := analysis.ParseSeverity(string(*cfg.Global.BlockAt))
		if err != nil {
			return Config{}, fmt.Errorf("%s: global.blockAt: %w", path, err)
		}
		cfg.Global.BlockAt = &parsed
	}
	return cfg, nil
}

// Policy derives the evaluation policy from the configuration.
func (c Config) Policy() policy.Policy {
	p := policy.Default
	if c.Global.BlockAt != nil {
		p.BlockAt = *c.Global.BlockAt
	}
	return p
}
