package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProvidersYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProvidersConfig(t *testing.T) {
	path := writeProvidersYAML(t, `
default_provider: whisper_cpp
providers:
  whisper_cpp:
    type: whisper_cpp
    settings:
      model_path: /models/ggml-base.bin
      language: en
      beam_size: 5
  openai:
    type: openai
    settings:
      api_key: ${TEST_OPENAI_KEY}
`)
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")

	cfg, err := LoadProvidersConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "whisper_cpp", cfg.DefaultProvider)
	require.Contains(t, cfg.Providers, "whisper_cpp")
	assert.Equal(t, "/models/ggml-base.bin", cfg.Providers["whisper_cpp"].Settings["model_path"])

	// ${VAR} expansion in string settings
	assert.Equal(t, "sk-from-env", cfg.Providers["openai"].Settings["api_key"])
}

func TestLoadProvidersConfig_MissingFile(t *testing.T) {
	_, err := LoadProvidersConfig("/nonexistent/providers.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadProvidersConfig_InvalidYAML(t *testing.T) {
	path := writeProvidersYAML(t, "providers: [not: a map")

	_, err := LoadProvidersConfig(path)
	require.Error(t, err)
}

func TestLoadProvidersConfig_MissingType(t *testing.T) {
	path := writeProvidersYAML(t, `
providers:
  broken:
    settings:
      model_path: /models/x.bin
`)

	_, err := LoadProvidersConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a type")
}

func TestProviderSettings_YAMLOverridesEnv(t *testing.T) {
	t.Setenv("WHISPER_PROVIDER", "whisper_cpp")
	t.Setenv("WHISPER_MODEL_PATH", "/models/from-env.bin")

	path := writeProvidersYAML(t, `
providers:
  whisper_cpp:
    type: whisper_cpp
    settings:
      model_path: /models/from-yaml.bin
      prompt: radio chatter
`)
	t.Setenv("PROVIDERS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	settings, err := cfg.ProviderSettings()
	require.NoError(t, err)

	assert.Equal(t, "/models/from-yaml.bin", settings["model_path"])
	assert.Equal(t, "radio chatter", settings["prompt"])
}
