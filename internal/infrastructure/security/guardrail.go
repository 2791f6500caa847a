// Package security implements the severity classifier: an ordered table of
// danger patterns scanned against every command candidate before execution.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nlshell/nlsh/assets"
	"github.com/nlshell/nlsh/internal/domain"
	"github.com/nlshell/nlsh/internal/ports"
)

// Guardrail implements the SecurityService port.
type Guardrail struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes one regex-based severity rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads severity rules from disk, falling back to the embedded
// defaults when the file is missing or empty.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	compiled := make([]compiledPattern, 0, len(rules.Rules.DangerPatterns))
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}

	return &Guardrail{patterns: compiled}, nil
}

// Classify implements ports.SecurityService. Every rule is tested; the
// returned level is the maximum severity among all matches, the reason comes
// from the first rule carrying that level, and warnings collect every matched
// message in first-seen order, deduplicated. Secondary concerns stay visible
// to the confirmation UI instead of being shadowed by the worst match.
func (g *Guardrail) Classify(command string) domain.SeverityCheck {
	check := domain.SeverityCheck{Level: domain.SeveritySafe}
	seen := map[string]bool{}

	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(command) {
			continue
		}
		level := parseLevel(pattern.rule.Level)
		if domain.MoreSevere(level, check.Level) {
			check.Level = level
			check.Reason = pattern.rule.Message
		}
		if !seen[pattern.rule.Message] {
			seen[pattern.rule.Message] = true
			check.Warnings = append(check.Warnings, pattern.rule.Message)
		}
	}
	return check
}

// Rules returns the loaded rule table in scan order.
func (g *Guardrail) Rules() []DangerPattern {
	rules := make([]DangerPattern, 0, len(g.patterns))
	for _, pattern := range g.patterns {
		rules = append(rules, pattern.rule)
	}
	return rules
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(expandPath(path))
	if err != nil {
		data = assets.DefaultRulesYAML
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		if err := yaml.Unmarshal(assets.DefaultRulesYAML, &rules); err != nil {
			return RulesFile{}, err
		}
	}
	return rules, nil
}

func parseLevel(value string) domain.SeverityLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.SeverityLow
	case "medium":
		return domain.SeverityMedium
	case "high":
		return domain.SeverityHigh
	case "critical":
		return domain.SeverityCritical
	default:
		return domain.SeveritySafe
	}
}

func expandPath(path string) string {
	if path == "" {
		return filepath.Join(userHomeDir(), ".nlsh", "rules.yaml")
	}
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

var _ ports.SecurityService = (*Guardrail)(nil)
