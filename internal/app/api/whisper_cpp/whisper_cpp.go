package whisper_cpp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"whisper-serve/internal/app/api/provider"
	"whisper-serve/internal/app/audio"
)

// LocalProviderConfig represents configuration for the local whisper.cpp provider
type LocalProviderConfig struct {
	ModelPath string `yaml:"model_path"` // Path to a ggml model file (required)
	ModelName string `yaml:"model_name"` // Display name reported by /health
	Language  string `yaml:"language"`   // Default language code ("auto" = detect)
	Threads   int    `yaml:"threads"`    // CPU threads (0 = whisper default)
	BeamSize  int    `yaml:"beam_size"`  // Decoding beam size
	Prompt    string `yaml:"prompt"`     // Initial prompt / vocabulary hint
}

// LocalTranscriber implements transcription with an in-process whisper.cpp
// model. The model is loaded exactly once at construction; contexts are
// created per request. Model access is serialized with a mutex, requests are
// not batched.
type LocalTranscriber struct {
	config LocalProviderConfig
	model  whisper.Model
	mu     sync.Mutex
}

// NewLocalTranscriber loads the whisper model from config.ModelPath and
// returns a ready transcriber. Callers must Close() it on shutdown.
func NewLocalTranscriber(config LocalProviderConfig) (*LocalTranscriber, error) {
	if config.ModelPath == "" {
		return nil, fmt.Errorf("whisper_cpp provider requires 'model_path' setting")
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not accessible: %w", err)
	}

	slog.Info("Loading whisper model", "path", config.ModelPath)
	start := time.Now()

	model, err := whisper.New(config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model %q: %w", config.ModelPath, err)
	}

	slog.Info("Whisper model loaded", "path", config.ModelPath, "took", time.Since(start))

	return &LocalTranscriber{
		config: config,
		model:  model,
	}, nil
}

// Close releases the model resources
func (lt *LocalTranscriber) Close() error {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.model != nil {
		err := lt.model.Close()
		lt.model = nil
		return err
	}
	return nil
}

// Transcript implements the basic transcription interface
func (lt *LocalTranscriber) Transcript(inputFilePath string) (string, error) {
	response, err := lt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

// TranscriptWithOptions runs the uploaded file through the loaded model and
// joins the resulting segments.
func (lt *LocalTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}
	if _, err := os.Stat(request.InputFilePath); os.IsNotExist(err) {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}

	samples, err := lt.loadSamples(request.InputFilePath)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "audio_decode_failed",
			Message:   fmt.Sprintf("failed to prepare audio: %v", err),
			Provider:  "whisper_cpp",
			Retryable: false,
		}
	}

	segments, err := lt.process(ctx, samples, request)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "inference_failed",
			Message:   fmt.Sprintf("whisper inference failed: %v", err),
			Provider:  "whisper_cpp",
			Retryable: true,
		}
	}

	return &provider.TranscriptionResponse{
		Text:           provider.JoinSegments(segments),
		Language:       lt.language(request),
		Duration:       time.Duration(float64(len(samples)) / audio.WhisperSampleRate * float64(time.Second)),
		Segments:       segments,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      lt.ModelName(),
	}, nil
}

// loadSamples normalizes the input to mono 16kHz PCM and decodes it to
// float32 samples. Converted intermediates are removed before returning.
func (lt *LocalTranscriber) loadSamples(inputFilePath string) ([]float32, error) {
	is16kHzWav, err := audio.Is16kHzMonoWav(inputFilePath)
	if err != nil {
		return nil, fmt.Errorf("error probing input file: %w", err)
	}

	wavPath := inputFilePath
	if !is16kHzWav {
		wavPath, err = audio.ConvertTo16kHzWav(inputFilePath)
		if err != nil {
			return nil, fmt.Errorf("error converting input file: %w", err)
		}
		defer os.Remove(wavPath)
	}

	return audio.ReadWavSamples(wavPath)
}

// process runs whisper inference over the samples on a fresh context and
// drains all segments.
func (lt *LocalTranscriber) process(ctx context.Context, samples []float32, request *provider.TranscriptionRequest) ([]provider.TranscriptionSegment, error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if lt.model == nil {
		return nil, fmt.Errorf("model is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wctx, err := lt.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create whisper context: %w", err)
	}

	if lang := lt.language(request); lang != "" && lang != "auto" {
		if err := wctx.SetLanguage(lang); err != nil {
			return nil, fmt.Errorf("unsupported language %q: %w", lang, err)
		}
	}
	if lt.config.Threads > 0 {
		wctx.SetThreads(uint(lt.config.Threads))
	}
	if beamSize := lt.beamSize(request); beamSize > 0 {
		wctx.SetBeamSize(beamSize)
	}
	if prompt := lt.prompt(request); prompt != "" {
		wctx.SetInitialPrompt(prompt)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("process failed: %w", err)
	}

	var segments []provider.TranscriptionSegment
	for {
		seg, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read segment: %w", err)
		}
		segments = append(segments, provider.TranscriptionSegment{
			ID:    seg.Num,
			Text:  seg.Text,
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
		})
	}
	return segments, nil
}

func (lt *LocalTranscriber) language(request *provider.TranscriptionRequest) string {
	if request.Language != "" {
		return request.Language
	}
	return lt.config.Language
}

func (lt *LocalTranscriber) beamSize(request *provider.TranscriptionRequest) int {
	if request.BeamSize > 0 {
		return request.BeamSize
	}
	return lt.config.BeamSize
}

func (lt *LocalTranscriber) prompt(request *provider.TranscriptionRequest) string {
	if request.Prompt != "" {
		return request.Prompt
	}
	return lt.config.Prompt
}

// ModelName returns the display name of the loaded model
func (lt *LocalTranscriber) ModelName() string {
	if lt.config.ModelName != "" {
		return lt.config.ModelName
	}
	return lt.config.ModelPath
}

// GetProviderInfo returns provider metadata
func (lt *LocalTranscriber) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "whisper_cpp",
		DisplayName: "Whisper.cpp (Local)",
		Type:        provider.ProviderTypeLocal,
		Model:       lt.ModelName(),
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV, provider.FormatMP3, provider.FormatM4A,
			provider.FormatFLAC, provider.FormatOGG, provider.FormatWEBM,
			provider.FormatMP4,
		},
		RequiresNetwork: false,
	}
}

// ValidateConfiguration checks that the provider is usable
func (lt *LocalTranscriber) ValidateConfiguration() error {
	if lt.model == nil {
		return fmt.Errorf("whisper model is not loaded")
	}
	return nil
}

// HealthCheck verifies the provider is available. The loaded model is never
// touched here; health stays cheap.
func (lt *LocalTranscriber) HealthCheck(ctx context.Context) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	if lt.model == nil {
		return fmt.Errorf("whisper model is closed")
	}
	return nil
}
