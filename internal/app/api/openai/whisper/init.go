package whisper

import (
	"fmt"

	"whisper-serve/internal/app/api/provider"
)

func init() {
	// Register openai provider with the registry
	provider.RegisterProvider("openai", createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI whisper provider from configuration
func createOpenAIProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = config
	}

	providerConfig := OpenAIProviderConfig{}

	if auth, ok := config["auth"].(map[string]interface{}); ok {
		if apiKey, ok := auth["api_key"].(string); ok {
			providerConfig.APIKey = apiKey
		}
	}
	if apiKey, ok := settings["api_key"].(string); ok && providerConfig.APIKey == "" {
		providerConfig.APIKey = apiKey
	}
	if providerConfig.APIKey == "" {
		return nil, fmt.Errorf("openai provider requires 'api_key' setting")
	}

	if model, ok := settings["model"].(string); ok {
		providerConfig.Model = model
	}
	if language, ok := settings["language"].(string); ok {
		providerConfig.Language = language
	}
	if temperature, ok := settings["temperature"].(float64); ok {
		providerConfig.Temperature = float32(temperature)
	} else if temperature, ok := settings["temperature"].(int); ok {
		providerConfig.Temperature = float32(temperature)
	}
	if prompt, ok := settings["prompt"].(string); ok {
		providerConfig.Prompt = prompt
	}
	if baseURL, ok := settings["base_url"].(string); ok {
		providerConfig.BaseURL = baseURL
	}

	return NewRemoteTranscriber(providerConfig), nil
}
