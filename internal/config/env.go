package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// WhisperConfig holds transcription backend settings
type WhisperConfig struct {
	Provider  string // whisper_cpp, openai, whisper_server
	ModelPath string // ggml model file for whisper_cpp
	ModelName string // display name reported by /health
	Language  string // default language ("auto" = detect)
	Threads   int
	BeamSize  int

	OpenAIAPIKey  string
	OpenAIBaseURL string

	WhisperServerURL string

	// Optional YAML file with per-provider settings, overrides env defaults
	ProvidersConfigPath string
}

// Config is the full application configuration
type Config struct {
	Server  ServerConfig
	Whisper WhisperConfig
}

// LoadEnv loads environment variables from a .env file if one exists.
// Missing files are not an error; system environment might be set directly.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}
	return nil
}

// Load reads the full configuration from the environment and validates it.
// Implements fail-fast: returns an error immediately on invalid settings so
// the server never starts half-configured.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8000"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 5*time.Minute),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Minute),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 2*time.Minute),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Whisper: WhisperConfig{
			Provider:            getEnv("WHISPER_PROVIDER", "whisper_cpp"),
			ModelPath:           os.Getenv("WHISPER_MODEL_PATH"),
			ModelName:           getEnv("WHISPER_MODEL_NAME", "base"),
			Language:            getEnv("WHISPER_LANGUAGE", "auto"),
			Threads:             getEnvInt("WHISPER_THREADS", 0),
			BeamSize:            getEnvInt("WHISPER_BEAM_SIZE", 5),
			OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			OpenAIBaseURL:       os.Getenv("OPENAI_BASE_URL"),
			WhisperServerURL:    os.Getenv("WHISPER_SERVER_URL"),
			ProvidersConfigPath: os.Getenv("PROVIDERS_CONFIG"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency for the selected provider
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: must be numeric", c.Server.Port)
	}

	switch c.Whisper.Provider {
	case "whisper_cpp":
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("WHISPER_MODEL_PATH is required for the whisper_cpp provider")
		}
	case "openai":
		if c.Whisper.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		if !strings.HasPrefix(c.Whisper.OpenAIAPIKey, "sk-") {
			return fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(c.Whisper.OpenAIAPIKey) < 20 {
			return fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	case "whisper_server":
		if c.Whisper.WhisperServerURL == "" {
			return fmt.Errorf("WHISPER_SERVER_URL is required for the whisper_server provider")
		}
	default:
		return fmt.Errorf("unknown WHISPER_PROVIDER %q (expected whisper_cpp, openai or whisper_server)", c.Whisper.Provider)
	}

	if c.Whisper.BeamSize < 0 {
		return fmt.Errorf("WHISPER_BEAM_SIZE must not be negative")
	}
	return nil
}

// ProviderSettings converts the whisper configuration into the generic
// settings map consumed by provider creators. YAML file settings, when
// present, take precedence over the env-derived defaults.
func (c *Config) ProviderSettings() (map[string]interface{}, error) {
	settings := map[string]interface{}{}

	switch c.Whisper.Provider {
	case "whisper_cpp":
		settings["model_path"] = c.Whisper.ModelPath
		settings["model_name"] = c.Whisper.ModelName
		settings["language"] = c.Whisper.Language
		settings["threads"] = c.Whisper.Threads
		settings["beam_size"] = c.Whisper.BeamSize
	case "openai":
		settings["api_key"] = c.Whisper.OpenAIAPIKey
		settings["language"] = c.Whisper.Language
		if c.Whisper.OpenAIBaseURL != "" {
			settings["base_url"] = c.Whisper.OpenAIBaseURL
		}
	case "whisper_server":
		settings["base_url"] = c.Whisper.WhisperServerURL
		settings["language"] = c.Whisper.Language
		settings["model"] = c.Whisper.ModelName
	}

	if c.Whisper.ProvidersConfigPath != "" {
		providersCfg, err := LoadProvidersConfig(c.Whisper.ProvidersConfigPath)
		if err != nil {
			return nil, err
		}
		if pc, ok := providersCfg.Providers[c.Whisper.Provider]; ok {
			for k, v := range pc.Settings {
				settings[k] = v
			}
		}
	}

	return settings, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
