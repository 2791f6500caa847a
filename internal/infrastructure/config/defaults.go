package config

import (
	"gopkg.in/yaml.v3"

	"github.com/nlshell/nlsh/assets"
	"github.com/nlshell/nlsh/internal/domain"
)

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}
