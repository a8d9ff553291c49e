package testutil

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"whisper-serve/internal/api/v1/dto"
)

// MockTranscriptionService is a testify mock of services.TranscriptionService
type MockTranscriptionService struct {
	mock.Mock
}

func (m *MockTranscriptionService) Transcribe(ctx context.Context, upload io.Reader, filename string, form dto.TranscribeForm) (*dto.TranscriptionResponse, error) {
	args := m.Called(ctx, upload, filename, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TranscriptionResponse), args.Error(1)
}

func (m *MockTranscriptionService) ModelName() string {
	args := m.Called()
	return args.String(0)
}
