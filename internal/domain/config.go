package domain

// Config mirrors ~/.nlsh/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Verification        VerifySettings    `yaml:"verification"`
	Security            SecuritySettings  `yaml:"security"`
	Execution           ExecutionSettings `yaml:"execution"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// VerifySettings configures the verification judge.
type VerifySettings struct {
	ConfidenceThreshold int `yaml:"confidence_threshold"`
}

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell string `yaml:"shell"`
}
