package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setWhisperCppEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WHISPER_PROVIDER", "whisper_cpp")
	t.Setenv("WHISPER_MODEL_PATH", filepath.Join(t.TempDir(), "ggml-base.bin"))
}

func TestLoad_Defaults(t *testing.T) {
	setWhisperCppEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SERVER_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "whisper_cpp", cfg.Whisper.Provider)
	assert.Equal(t, "auto", cfg.Whisper.Language)
	assert.Equal(t, 5, cfg.Whisper.BeamSize)
}

func TestLoad_Overrides(t *testing.T) {
	setWhisperCppEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("WHISPER_LANGUAGE", "es")
	t.Setenv("WHISPER_BEAM_SIZE", "8")
	t.Setenv("SERVER_READ_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "es", cfg.Whisper.Language)
	assert.Equal(t, 8, cfg.Whisper.BeamSize)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_MissingModelPathFailsFast(t *testing.T) {
	t.Setenv("WHISPER_PROVIDER", "whisper_cpp")
	t.Setenv("WHISPER_MODEL_PATH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHISPER_MODEL_PATH")
}

func TestLoad_OpenAIKeyValidation(t *testing.T) {
	t.Setenv("WHISPER_PROVIDER", "openai")

	t.Setenv("OPENAI_API_KEY", "")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("OPENAI_API_KEY", "not-a-key")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sk-")

	t.Setenv("OPENAI_API_KEY", "sk-test-1234567890abcdef")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoad_WhisperServerRequiresURL(t *testing.T) {
	t.Setenv("WHISPER_PROVIDER", "whisper_server")
	t.Setenv("WHISPER_SERVER_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHISPER_SERVER_URL")
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("WHISPER_PROVIDER", "faster_whisper")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown WHISPER_PROVIDER")
}

func TestLoad_InvalidPort(t *testing.T) {
	setWhisperCppEnv(t)
	t.Setenv("SERVER_PORT", "eight thousand")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestProviderSettings_WhisperCpp(t *testing.T) {
	setWhisperCppEnv(t)
	t.Setenv("WHISPER_MODEL_NAME", "base")
	t.Setenv("WHISPER_THREADS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	settings, err := cfg.ProviderSettings()
	require.NoError(t, err)

	assert.Equal(t, cfg.Whisper.ModelPath, settings["model_path"])
	assert.Equal(t, "base", settings["model_name"])
	assert.Equal(t, 4, settings["threads"])
	assert.Equal(t, 5, settings["beam_size"])
}
