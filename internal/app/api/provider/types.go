package provider

import (
	"path/filepath"
	"strings"
	"time"
)

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatFLAC AudioFormat = "flac"
	FormatOGG  AudioFormat = "ogg"
	FormatWEBM AudioFormat = "webm"
	FormatMP4  AudioFormat = "mp4"
)

// ProviderType defines where a provider runs
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionRequest represents a transcription request with all possible options
type TranscriptionRequest struct {
	// Core fields
	InputFilePath string `json:"input_file_path"`

	// Language and model options
	Language string `json:"language,omitempty"` // "en", "es", "auto", etc.
	Model    string `json:"model,omitempty"`    // Provider-specific model ID

	// Quality and processing options
	BeamSize    int     `json:"beam_size,omitempty"`   // Decoding beam size (0 = provider default)
	Temperature float32 `json:"temperature,omitempty"` // For some providers (0.0-1.0)
	Prompt      string  `json:"prompt,omitempty"`      // Context prompt for better accuracy

	// Output format options
	ResponseFormat string `json:"response_format,omitempty"` // "text", "json", "verbose_json"
}

// TranscriptionResponse represents the response from a transcription provider
type TranscriptionResponse struct {
	// Core result: all segment texts joined with single spaces and trimmed
	Text string `json:"text"`

	// Metadata
	Language string        `json:"language,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`

	// Timing information (if the backend reports it)
	Segments []TranscriptionSegment `json:"segments,omitempty"`

	// Processing info
	ProcessingTime time.Duration `json:"processing_time,omitempty"`
	ModelUsed      string        `json:"model_used,omitempty"`
}

// TranscriptionSegment represents a time-segmented piece of transcription
type TranscriptionSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"` // Start time in seconds
	End   float64 `json:"end"`   // End time in seconds
}

// ProviderInfo describes a provider's identity and capabilities
type ProviderInfo struct {
	Name             string        `json:"name"`
	DisplayName      string        `json:"display_name"`
	Type             ProviderType  `json:"type"`
	Model            string        `json:"model,omitempty"`
	SupportedFormats []AudioFormat `json:"supported_formats,omitempty"`
	RequiresNetwork  bool          `json:"requires_network"`
}

// TranscriptionError represents provider-specific errors
type TranscriptionError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Provider  string `json:"provider"`
	Retryable bool   `json:"retryable"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}

// ClientMessage returns a description of the error that is safe to return to
// API clients. Message may carry scratch-file paths or tool output (ffmpeg
// stderr, remote response bodies) and must only ever reach server logs.
func (e *TranscriptionError) ClientMessage() string {
	switch e.Code {
	case "invalid_input":
		return "no input audio was provided"
	case "file_not_found":
		return "the uploaded audio could not be read back for processing"
	case "audio_decode_failed":
		return "the uploaded audio could not be decoded"
	case "inference_failed":
		return "speech recognition failed"
	case "api_request_failed", "server_error":
		return "the transcription backend reported an error"
	case "form_creation_failed", "request_creation_failed", "request_failed",
		"response_read_failed", "response_parse_failed":
		return "the transcription backend could not be reached"
	default:
		return "transcription failed"
	}
}

// IsValidAudioFormat checks if the given format is supported
func IsValidAudioFormat(format string) bool {
	switch AudioFormat(strings.ToLower(format)) {
	case FormatWAV, FormatMP3, FormatM4A, FormatFLAC, FormatOGG, FormatWEBM, FormatMP4:
		return true
	default:
		return false
	}
}

// GetAudioFormatFromFilename extracts the audio format from a filename extension
func GetAudioFormatFromFilename(filename string) AudioFormat {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !IsValidAudioFormat(ext) {
		return ""
	}
	return AudioFormat(ext)
}

// JoinSegments concatenates segment texts with single spaces, trimming
// surrounding whitespace from each piece and from the result.
func JoinSegments(segments []TranscriptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
