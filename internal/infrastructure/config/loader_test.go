package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nlshell/nlsh/internal/domain"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, "claude-sonnet", cfg.Preferences.DefaultModel)
	require.Equal(t, 70, cfg.Verification.ConfidenceThreshold)
	require.Len(t, cfg.Models, 3)

	// The defaults also land on disk for the user to edit.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	t.Setenv("NLSH_MODEL", "local")
	t.Setenv("NLSH_CONFIDENCE_THRESHOLD", "85")
	t.Setenv("NLSH_SHELL", "/bin/zsh")
	t.Setenv("NLSH_RULES", "/tmp/custom-rules.yaml")

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Preferences.DefaultModel)
	require.Equal(t, 85, cfg.Verification.ConfidenceThreshold)
	require.Equal(t, "/bin/zsh", cfg.Execution.Shell)
	require.Equal(t, "/tmp/custom-rules.yaml", cfg.Security.RulesFile)
}

func TestLoadThresholdOverrideClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	t.Setenv("NLSH_CONFIDENCE_THRESHOLD", "400")

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Verification.ConfidenceThreshold)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models: [unclosed"), 0o600))

	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
}

func TestLoadRejectsUndeclaredDefaultModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `preferences:
  default_model: ghost
models:
  - name: real
    provider: ollama
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	cfg.Preferences.DefaultModel = "gpt-4o"
	require.NoError(t, loader.Save(cfg))

	reloaded, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "gpt-4o", reloaded.Preferences.DefaultModel)
}

func TestDefaultConfigValid(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	model, err := cfg.GetDefaultModel()
	require.NoError(t, err)
	require.Equal(t, domain.ProviderKindAnthropic, model.Provider)
}
