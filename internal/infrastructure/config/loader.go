// Package config loads YAML configuration from ~/.nlsh/config.yaml with
// environment variable overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nlshell/nlsh/assets"
	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// FileLoader loads configuration from disk, writing the embedded defaults
// on first run.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. An empty path resolves to
// $NLSH_CONFIG or ~/.nlsh/config.yaml.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

type envOverrides struct {
	DefaultModel        string `env:"NLSH_MODEL"`
	ConfidenceThreshold int    `env:"NLSH_CONFIDENCE_THRESHOLD" envDefault:"-1"`
	Shell               string `env:"NLSH_SHELL"`
	RulesFile           string `env:"NLSH_RULES"`
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, err
		}
		data = assets.DefaultConfigYAML
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg = hydrateDefaults(cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return domain.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Path reports where the configuration is read from.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the configuration back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("NLSH_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".nlsh", "config.yaml")
}

func applyEnvOverrides(cfg *domain.Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if overrides.DefaultModel != "" {
		cfg.Preferences.DefaultModel = overrides.DefaultModel
	}
	if overrides.ConfidenceThreshold >= 0 {
		cfg.Verification.ConfidenceThreshold = domain.ClampConfidence(overrides.ConfidenceThreshold)
	}
	if overrides.Shell != "" {
		cfg.Execution.Shell = overrides.Shell
	}
	if overrides.RulesFile != "" {
		cfg.Security.RulesFile = overrides.RulesFile
	}
	return nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 60
	}
	if cfg.Verification.ConfidenceThreshold == 0 {
		cfg.Verification.ConfidenceThreshold = 70
	}
	cfg.Verification.ConfidenceThreshold = domain.ClampConfidence(cfg.Verification.ConfidenceThreshold)
	return cfg
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return path
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
