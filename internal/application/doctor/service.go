// Package doctor runs environment diagnostics: config, rules, provider
// credentials, terminal context and history storage.
package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider   ports.ConfigProvider
	SecurityService  ports.SecurityService
	ContextCollector ports.ContextCollector
	Session          ports.SessionStore
}

// Run executes checks and returns a report. A config load failure is fatal;
// everything else degrades to warnings so the report stays useful.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format %s, %d model(s)", cfg.ConfigFormatVersion, len(cfg.Models))))

	if len(cfg.Models) == 0 {
		checks = append(checks, fail("Models", "none configured: run 'nlsh init'"))
	} else if _, err := cfg.GetDefaultModel(); err != nil {
		checks = append(checks, warn("Models", err.Error()))
	} else {
		checks = append(checks, ok("Models", fmt.Sprintf("default %q", cfg.Preferences.DefaultModel)))
	}

	if s.SecurityService != nil {
		probe := s.SecurityService.Classify("rm -rf /")
		if probe.Level == domain.SeverityCritical {
			checks = append(checks, ok("Severity rules", "loaded, critical patterns active"))
		} else {
			checks = append(checks, warn("Severity rules", fmt.Sprintf("probe classified %s: rule table may be overridden incorrectly", probe.Level)))
		}
	} else {
		checks = append(checks, warn("Severity rules", "security service not initialized"))
	}

	if s.ContextCollector != nil {
		if snapshot, err := s.ContextCollector.Collect(ctx, cfg); err == nil {
			checks = append(checks, ok("Context collector", fmt.Sprintf("shell %s, %d tool(s) detected", snapshot.Shell, len(snapshot.AvailableTools))))
		} else {
			checks = append(checks, warn("Context collector", err.Error()))
		}
	}

	if s.Session != nil {
		if records, err := s.Session.Records(1, ""); err == nil {
			checks = append(checks, ok("Session history", fmt.Sprintf("store reachable (%d recent)", len(records))))
		} else {
			checks = append(checks, warn("Session history", err.Error()))
		}
	}

	checks = append(checks, credentialChecks(cfg.Models)...)

	return domain.HealthReport{Checks: checks}, nil
}

// credentialChecks reports one line per configured model that needs an API
// key. Local endpoints (ollama) need none.
func credentialChecks(models []domain.ModelDefinition) []domain.HealthCheck {
	var checks []domain.HealthCheck
	for _, model := range models {
		envVar := authEnvFor(model)
		if envVar == "" {
			continue
		}
		name := fmt.Sprintf("API key (%s)", model.Name)
		if os.Getenv(envVar) == "" {
			checks = append(checks, warn(name, envVar+" not set"))
		} else {
			checks = append(checks, ok(name, envVar+" present"))
		}
	}
	if len(checks) == 0 {
		checks = append(checks, ok("API keys", "no configured model requires one"))
	}
	return checks
}

func authEnvFor(model domain.ModelDefinition) string {
	if model.AuthEnvVar != "" {
		return model.AuthEnvVar
	}
	switch model.Provider {
	case domain.ProviderKindAnthropic:
		return "ANTHROPIC_API_KEY"
	case domain.ProviderKindOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
