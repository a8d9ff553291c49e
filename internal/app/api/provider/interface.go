package provider

import (
	"context"

	"whisper-serve/internal/app/api"
)

// TranscriptionProvider defines the interface for transcription backends.
// Implementations load whatever resources they need (a local model, an HTTP
// client) once at construction time and are safe for concurrent use.
type TranscriptionProvider interface {
	// Core transcription functionality: file path in, plain text out
	api.Transcriber

	// Enhanced transcription with full options and context support
	TranscriptWithOptions(ctx context.Context, request *TranscriptionRequest) (*TranscriptionResponse, error)

	// Provider metadata and capabilities
	GetProviderInfo() ProviderInfo

	// Configuration validation, called once at registration
	ValidateConfiguration() error

	// Health check to verify the provider is available and functioning
	HealthCheck(ctx context.Context) error
}

// CloseableProvider is implemented by providers that hold resources which
// must be released on shutdown, such as a loaded model.
type CloseableProvider interface {
	TranscriptionProvider
	Close() error
}
