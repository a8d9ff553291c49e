package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"whisper-serve/internal/app/api/provider"
)

// MockProvider is a testify mock implementation of provider.TranscriptionProvider
type MockProvider struct {
	mock.Mock

	// Info returned by GetProviderInfo; tests can override before use
	Info provider.ProviderInfo
}

// NewMockProvider creates a mock provider with sensible defaults
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Info: provider.ProviderInfo{
			Name:        "mock",
			DisplayName: "Mock Provider",
			Type:        provider.ProviderTypeLocal,
			Model:       "mock-base",
		},
	}
}

func (m *MockProvider) Transcript(inputFilePath string) (string, error) {
	args := m.Called(inputFilePath)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TranscriptionResponse), args.Error(1)
}

func (m *MockProvider) GetProviderInfo() provider.ProviderInfo {
	return m.Info
}

func (m *MockProvider) ValidateConfiguration() error {
	return nil
}

func (m *MockProvider) HealthCheck(ctx context.Context) error {
	return nil
}
