package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProvidersConfig represents the optional YAML configuration for providers
type ProvidersConfig struct {
	DefaultProvider string                    `yaml:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig represents configuration for a single provider
type ProviderConfig struct {
	Type     string                 `yaml:"type"`
	Settings map[string]interface{} `yaml:"settings,omitempty"`
}

// LoadProvidersConfig loads provider configuration from a YAML file.
// Scalar string values support ${ENV_VAR} expansion so secrets can stay out
// of the file.
func LoadProvidersConfig(configPath string) (*ProvidersConfig, error) {
	configPath = os.ExpandEnv(configPath)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("providers config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read providers config: %w", err)
	}

	var cfg ProvidersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse providers config YAML: %w", err)
	}

	cfg.expandEnvironmentVariables()

	for name, pc := range cfg.Providers {
		if pc.Type == "" {
			return nil, fmt.Errorf("provider %q is missing a type", name)
		}
	}

	return &cfg, nil
}

// expandEnvironmentVariables expands ${VAR} references in string settings
func (c *ProvidersConfig) expandEnvironmentVariables() {
	for name, pc := range c.Providers {
		for key, value := range pc.Settings {
			if str, ok := value.(string); ok {
				pc.Settings[key] = os.ExpandEnv(str)
			}
		}
		c.Providers[name] = pc
	}
}
