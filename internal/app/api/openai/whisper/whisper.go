package whisper

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sashabaranov/go-openai"

	"whisper-serve/internal/app/api/provider"
)

// OpenAIProviderConfig represents configuration specific to the OpenAI Whisper provider
type OpenAIProviderConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Language    string  `yaml:"language"`
	Temperature float32 `yaml:"temperature"`
	Prompt      string  `yaml:"prompt"`
	BaseURL     string  `yaml:"base_url"`
}

// RemoteTranscriber implements transcription via the OpenAI audio API
type RemoteTranscriber struct {
	client *openai.Client
	config OpenAIProviderConfig
}

// NewRemoteTranscriber creates a new remote transcriber
func NewRemoteTranscriber(config OpenAIProviderConfig) *RemoteTranscriber {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	if config.Model == "" {
		config.Model = string(openai.Whisper1)
	}

	return &RemoteTranscriber{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Transcript implements the basic transcription interface
func (rt *RemoteTranscriber) Transcript(inputFilePath string) (string, error) {
	response, err := rt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

// TranscriptWithOptions implements the enhanced transcription interface
func (rt *RemoteTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "openai",
			Retryable: false,
		}
	}
	if _, err := os.Stat(request.InputFilePath); os.IsNotExist(err) {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "openai",
			Retryable: false,
		}
	}

	audioRequest := openai.AudioRequest{
		Model:       rt.model(request),
		FilePath:    request.InputFilePath,
		Prompt:      rt.config.Prompt,
		Temperature: rt.config.Temperature,
		Format:      openai.AudioResponseFormatVerboseJSON,
	}
	if request.Prompt != "" {
		audioRequest.Prompt = request.Prompt
	}
	if lang := rt.language(request); lang != "" && lang != "auto" {
		audioRequest.Language = lang
	}

	resp, err := rt.client.CreateTranscription(ctx, audioRequest)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "api_request_failed",
			Message:   fmt.Sprintf("OpenAI transcription failed: %v", err),
			Provider:  "openai",
			Retryable: true,
		}
	}

	segments := make([]provider.TranscriptionSegment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, provider.TranscriptionSegment{
			ID:    s.ID,
			Text:  s.Text,
			Start: s.Start,
			End:   s.End,
		})
	}

	text := resp.Text
	if len(segments) > 0 {
		text = provider.JoinSegments(segments)
	}

	return &provider.TranscriptionResponse{
		Text:           text,
		Language:       resp.Language,
		Duration:       time.Duration(resp.Duration * float64(time.Second)),
		Segments:       segments,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      audioRequest.Model,
	}, nil
}

func (rt *RemoteTranscriber) model(request *provider.TranscriptionRequest) string {
	if request.Model != "" {
		return request.Model
	}
	return rt.config.Model
}

func (rt *RemoteTranscriber) language(request *provider.TranscriptionRequest) string {
	if request.Language != "" {
		return request.Language
	}
	return rt.config.Language
}

// GetProviderInfo returns provider metadata
func (rt *RemoteTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "openai",
		DisplayName: "OpenAI Whisper API",
		Type:        provider.ProviderTypeRemote,
		Model:       rt.config.Model,
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV, provider.FormatMP3, provider.FormatM4A,
			provider.FormatFLAC, provider.FormatOGG, provider.FormatWEBM,
			provider.FormatMP4,
		},
		RequiresNetwork: true,
	}
}

// ValidateConfiguration checks that the provider is usable
func (rt *RemoteTranscriber) ValidateConfiguration() error {
	if rt.config.APIKey == "" {
		return fmt.Errorf("openai provider requires an API key")
	}
	return nil
}

// HealthCheck verifies the provider is configured. No API round trip; the
// key is only exercised by real requests.
func (rt *RemoteTranscriber) HealthCheck(ctx context.Context) error {
	return rt.ValidateConfiguration()
}
