package domain

import "fmt"

// GetDefaultModel retrieves the default model definition from configuration.
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		if len(c.Models) > 0 {
			return c.Models[0], nil
		}
		return ModelDefinition{}, ErrNotConfigured
	}

	for _, model := range c.Models {
		if model.Name == c.Preferences.DefaultModel {
			return model, nil
		}
	}

	return ModelDefinition{}, fmt.Errorf("default model %s not found in configuration", c.Preferences.DefaultModel)
}

// FindModelByName searches for a model by its name.
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration.
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// AddModel adds a new model to the configuration.
func (c *Config) AddModel(model ModelDefinition) error {
	if c.HasModel(model.Name) {
		return fmt.Errorf("model with name %s already exists", model.Name)
	}
	c.Models = append(c.Models, model)
	return nil
}

// RemoveModel removes a model from the configuration by name and updates
// the default model if it pointed at the removed entry.
func (c *Config) RemoveModel(name string) error {
	indexToRemove := -1
	for i, model := range c.Models {
		if model.Name == name {
			indexToRemove = i
			break
		}
	}

	if indexToRemove == -1 {
		return fmt.Errorf("model %s not found", name)
	}

	c.Models = append(c.Models[:indexToRemove], c.Models[indexToRemove+1:]...)

	if c.Preferences.DefaultModel == name {
		if len(c.Models) > 0 {
			c.Preferences.DefaultModel = c.Models[0].Name
		} else {
			c.Preferences.DefaultModel = ""
		}
	}
	return nil
}

// ConfidenceThreshold returns the configured cutoff, clamped into [0,100].
func (c *Config) ConfidenceThreshold() int {
	return ClampConfidence(c.Verification.ConfidenceThreshold)
}

// Validate reports structural problems a loader should reject.
func (c *Config) Validate() error {
	seen := map[string]bool{}
	for _, model := range c.Models {
		if model.Name == "" {
			return fmt.Errorf("model with empty name")
		}
		if seen[model.Name] {
			return fmt.Errorf("duplicate model name %s", model.Name)
		}
		seen[model.Name] = true
		switch model.Provider {
		case ProviderKindAnthropic, ProviderKindOpenAI, ProviderKindOllama:
		default:
			return fmt.Errorf("model %s: unknown provider %q", model.Name, model.Provider)
		}
	}
	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s not declared", c.Preferences.DefaultModel)
	}
	return nil
}
