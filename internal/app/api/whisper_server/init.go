package whisper_server

import (
	"fmt"
	"time"

	"whisper-serve/internal/app/api/provider"
)

func init() {
	// Register whisper_server provider with the registry
	provider.RegisterProvider("whisper_server", createWhisperServerProvider)
}

// createWhisperServerProvider creates a whisper-server HTTP provider from configuration
func createWhisperServerProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = config
	}

	providerConfig := WhisperServerConfig{}

	baseURL, ok := settings["base_url"].(string)
	if !ok || baseURL == "" {
		return nil, fmt.Errorf("whisper_server provider requires 'base_url' setting")
	}
	providerConfig.BaseURL = baseURL

	if inferencePath, ok := settings["inference_path"].(string); ok {
		providerConfig.InferencePath = inferencePath
	}
	if healthPath, ok := settings["health_path"].(string); ok {
		providerConfig.HealthPath = healthPath
	}
	if timeout, ok := settings["timeout"].(float64); ok {
		providerConfig.Timeout = time.Duration(timeout) * time.Second
	} else if timeout, ok := settings["timeout"].(int); ok {
		providerConfig.Timeout = time.Duration(timeout) * time.Second
	}
	if language, ok := settings["language"].(string); ok {
		providerConfig.Language = language
	}
	if responseFormat, ok := settings["response_format"].(string); ok {
		providerConfig.ResponseFormat = responseFormat
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		providerConfig.Temperature = temperature
	} else if temperature, ok := settings["temperature"].(int); ok {
		providerConfig.Temperature = float64(temperature)
	}
	if model, ok := settings["model"].(string); ok {
		providerConfig.Model = model
	}

	return NewWhisperServerProvider(providerConfig), nil
}
