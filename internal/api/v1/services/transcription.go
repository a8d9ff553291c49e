package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/samber/lo"

	apierrors "whisper-serve/internal/api/errors"
	"whisper-serve/internal/api/v1/dto"
	"whisper-serve/internal/app/api/provider"
	"whisper-serve/internal/app/audio"
	"whisper-serve/internal/app/util/files"
)

// TranscriptionService transcribes uploaded audio through the configured backend
type TranscriptionService interface {
	// Transcribe saves the upload to scratch space, runs it through the
	// backend and returns the joined transcript. Temp files are always
	// removed before returning.
	Transcribe(ctx context.Context, upload io.Reader, filename string, form dto.TranscribeForm) (*dto.TranscriptionResponse, error)

	// ModelName reports the display name of the loaded model
	ModelName() string
}

// TranscriptionServiceImpl implements TranscriptionService
type TranscriptionServiceImpl struct {
	backend provider.TranscriptionProvider
	logger  *slog.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(backend provider.TranscriptionProvider, logger *slog.Logger) TranscriptionService {
	return &TranscriptionServiceImpl{
		backend: backend,
		logger:  logger,
	}
}

// Transcribe runs one uploaded file through the backend
func (s *TranscriptionServiceImpl) Transcribe(ctx context.Context, upload io.Reader, filename string, form dto.TranscribeForm) (*dto.TranscriptionResponse, error) {
	if format := provider.GetAudioFormatFromFilename(filename); format == "" {
		return nil, apierrors.NewBadRequestError(
			fmt.Sprintf("unsupported audio format for %q (expected wav, mp3, m4a, flac, ogg, webm or mp4)", filename))
	}

	path, cleanup, err := files.SaveUpload(upload, filename)
	if err != nil {
		return nil, apierrors.NewBadRequestError(fmt.Sprintf("failed to read upload: %v", err))
	}
	defer cleanup()

	providerName := s.backend.GetProviderInfo().Name
	start := time.Now()

	response, err := s.backend.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath:  path,
		Language:       form.Language,
		Model:          form.Model,
		Prompt:         form.Prompt,
		Temperature:    form.Temperature,
		ResponseFormat: form.ResponseFormat,
	})
	if err != nil {
		provider.RecordFailure(providerName, time.Since(start).Seconds())
		s.logger.Error("Transcription failed",
			"provider", providerName,
			"file", filename,
			"error", err,
		)
		return nil, mapBackendError(err)
	}

	audioSeconds := response.Duration.Seconds()
	if audioSeconds == 0 {
		// Remote backends may not report a duration; probe the upload so the
		// audio-seconds metric still moves.
		if probed, perr := audio.GetAudioDuration(path); perr == nil {
			audioSeconds = float64(probed)
		}
	}

	provider.RecordSuccess(providerName, time.Since(start).Seconds(), audioSeconds)
	s.logger.Info("Transcription completed",
		"provider", providerName,
		"file", filename,
		"audio_seconds", audioSeconds,
		"took_ms", time.Since(start).Milliseconds(),
	)

	result := &dto.TranscriptionResponse{
		Text:     response.Text,
		Language: response.Language,
		Duration: audioSeconds,
	}
	if form.ResponseFormat == "verbose_json" {
		result.Segments = lo.Map(response.Segments, func(seg provider.TranscriptionSegment, _ int) dto.TranscriptionSegment {
			return dto.TranscriptionSegment{
				ID:    seg.ID,
				Text:  seg.Text,
				Start: seg.Start,
				End:   seg.End,
			}
		})
	}
	return result, nil
}

// ModelName reports the backend's model display name
func (s *TranscriptionServiceImpl) ModelName() string {
	return s.backend.GetProviderInfo().Model
}

// mapBackendError converts provider errors into the API error envelope.
// Backend messages can name scratch paths or embed tool output, so only the
// code-derived ClientMessage crosses the API boundary; the detailed error is
// already logged by the caller.
func mapBackendError(err error) *apierrors.APIError {
	var terr *provider.TranscriptionError
	if errors.As(err, &terr) {
		apiErr := apierrors.NewServiceUnavailableError(terr.ClientMessage())
		if !terr.Retryable {
			apiErr = apierrors.NewInternalError(terr.ClientMessage())
		}
		apiErr.Code = terr.Code
		return apiErr
	}
	return apierrors.NewInternalError("transcription failed")
}
