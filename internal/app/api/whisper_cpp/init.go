package whisper_cpp

import (
	"whisper-serve/internal/app/api/provider"
)

func init() {
	// Register whisper_cpp provider with the registry
	provider.RegisterProvider("whisper_cpp", createWhisperCppProvider)
}

// createWhisperCppProvider creates a whisper.cpp provider from configuration
func createWhisperCppProvider(config map[string]interface{}) (provider.TranscriptionProvider, error) {
	settings, ok := config["settings"].(map[string]interface{})
	if !ok {
		settings = config // Use entire config as settings if not nested
	}

	providerConfig := LocalProviderConfig{}

	if modelPath, ok := settings["model_path"].(string); ok {
		providerConfig.ModelPath = modelPath
	}
	if modelName, ok := settings["model_name"].(string); ok {
		providerConfig.ModelName = modelName
	}
	if language, ok := settings["language"].(string); ok {
		providerConfig.Language = language
	}
	if prompt, ok := settings["prompt"].(string); ok {
		providerConfig.Prompt = prompt
	}
	if threads, ok := settings["threads"].(float64); ok {
		providerConfig.Threads = int(threads)
	} else if threads, ok := settings["threads"].(int); ok {
		providerConfig.Threads = threads
	}
	if beamSize, ok := settings["beam_size"].(float64); ok {
		providerConfig.BeamSize = int(beamSize)
	} else if beamSize, ok := settings["beam_size"].(int); ok {
		providerConfig.BeamSize = beamSize
	}

	return NewLocalTranscriber(providerConfig)
}
