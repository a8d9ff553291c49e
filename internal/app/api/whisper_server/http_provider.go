package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/samber/lo"

	"whisper-serve/internal/app/api/provider"
)

// WhisperServerConfig represents configuration for the whisper.cpp server HTTP API
type WhisperServerConfig struct {
	BaseURL        string        `yaml:"base_url"`        // Base URL of whisper-server (e.g., "http://192.168.1.100:8080")
	InferencePath  string        `yaml:"inference_path"`  // Inference endpoint path (default: "/inference")
	HealthPath     string        `yaml:"health_path"`     // Health endpoint path (default: "/health")
	Timeout        time.Duration `yaml:"timeout"`         // Request timeout
	Language       string        `yaml:"language"`        // Default language code
	ResponseFormat string        `yaml:"response_format"` // Default response format (json, verbose_json)
	Temperature    float64       `yaml:"temperature"`     // Decoding temperature (0.0-1.0)
	Model          string        `yaml:"model"`           // Display name of the remote model
}

// whisperServerResponse represents the response from whisper-server
type whisperServerResponse struct {
	Text     string                 `json:"text,omitempty"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []whisperServerSegment `json:"segments,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// whisperServerSegment represents a segment in a verbose response
type whisperServerSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// WhisperServerProvider implements transcription via HTTP to a whisper-server instance
type WhisperServerProvider struct {
	config WhisperServerConfig
	client *http.Client
}

// NewWhisperServerProvider creates a new whisper-server HTTP provider
func NewWhisperServerProvider(config WhisperServerConfig) *WhisperServerProvider {
	if config.InferencePath == "" {
		config.InferencePath = "/inference"
	}
	if config.HealthPath == "" {
		config.HealthPath = "/health"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.ResponseFormat == "" {
		config.ResponseFormat = "json"
	}

	return &WhisperServerProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Transcript implements the basic transcription interface
func (wsp *WhisperServerProvider) Transcript(inputFilePath string) (string, error) {
	response, err := wsp.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
	})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

// TranscriptWithOptions implements the enhanced transcription interface
func (wsp *WhisperServerProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, &provider.TranscriptionError{
			Code:      "invalid_input",
			Message:   "input file path is required",
			Provider:  "whisper_server",
			Retryable: false,
		}
	}
	if _, err := os.Stat(request.InputFilePath); os.IsNotExist(err) {
		return nil, &provider.TranscriptionError{
			Code:      "file_not_found",
			Message:   fmt.Sprintf("input file not found: %s", request.InputFilePath),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	body, contentType, err := wsp.createMultipartForm(request)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "form_creation_failed",
			Message:   fmt.Sprintf("failed to create multipart form: %v", err),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}

	url := wsp.config.BaseURL + wsp.config.InferencePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "request_creation_failed",
			Message:   fmt.Sprintf("failed to create HTTP request: %v", err),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "request_failed",
			Message:   fmt.Sprintf("whisper-server request failed: %v", err),
			Provider:  "whisper_server",
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "response_read_failed",
			Message:   fmt.Sprintf("failed to read response: %v", err),
			Provider:  "whisper_server",
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.TranscriptionError{
			Code:      "server_error",
			Message:   fmt.Sprintf("whisper-server returned status %d: %s", resp.StatusCode, string(respBody)),
			Provider:  "whisper_server",
			Retryable: resp.StatusCode >= 500,
		}
	}

	return wsp.parseResponse(respBody, startTime)
}

// createMultipartForm builds the multipart request body for whisper-server
func (wsp *WhisperServerProvider) createMultipartForm(request *provider.TranscriptionRequest) (*bytes.Buffer, string, error) {
	file, err := os.Open(request.InputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(request.InputFilePath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}

	fields := map[string]string{
		"response_format": wsp.config.ResponseFormat,
	}
	if lang := wsp.language(request); lang != "" {
		fields["language"] = lang
	}
	if wsp.config.Temperature > 0 {
		fields["temperature"] = strconv.FormatFloat(wsp.config.Temperature, 'f', -1, 64)
	}

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil
}

// parseResponse converts a whisper-server JSON body into a TranscriptionResponse
func (wsp *WhisperServerProvider) parseResponse(respBody []byte, startTime time.Time) (*provider.TranscriptionResponse, error) {
	var serverResp whisperServerResponse
	if err := json.Unmarshal(respBody, &serverResp); err != nil {
		return nil, &provider.TranscriptionError{
			Code:      "response_parse_failed",
			Message:   fmt.Sprintf("failed to parse whisper-server response: %v", err),
			Provider:  "whisper_server",
			Retryable: false,
		}
	}
	if serverResp.Error != "" {
		return nil, &provider.TranscriptionError{
			Code:      "server_error",
			Message:   serverResp.Error,
			Provider:  "whisper_server",
			Retryable: true,
		}
	}

	segments := lo.Map(serverResp.Segments, func(s whisperServerSegment, _ int) provider.TranscriptionSegment {
		return provider.TranscriptionSegment{
			ID:    s.ID,
			Text:  s.Text,
			Start: s.Start,
			End:   s.End,
		}
	})

	text := serverResp.Text
	if len(segments) > 0 {
		text = provider.JoinSegments(segments)
	}

	return &provider.TranscriptionResponse{
		Text:           text,
		Language:       serverResp.Language,
		Duration:       time.Duration(serverResp.Duration * float64(time.Second)),
		Segments:       segments,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      wsp.config.Model,
	}, nil
}

func (wsp *WhisperServerProvider) language(request *provider.TranscriptionRequest) string {
	if request.Language != "" && request.Language != "auto" {
		return request.Language
	}
	if wsp.config.Language != "" && wsp.config.Language != "auto" {
		return wsp.config.Language
	}
	return ""
}

// GetProviderInfo returns provider metadata
func (wsp *WhisperServerProvider) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        "whisper_server",
		DisplayName: "Whisper Server (HTTP)",
		Type:        provider.ProviderTypeRemote,
		Model:       wsp.config.Model,
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV, provider.FormatMP3, provider.FormatM4A,
			provider.FormatFLAC, provider.FormatOGG, provider.FormatWEBM,
		},
		RequiresNetwork: true,
	}
}

// ValidateConfiguration checks that the provider is usable
func (wsp *WhisperServerProvider) ValidateConfiguration() error {
	if wsp.config.BaseURL == "" {
		return fmt.Errorf("whisper_server provider requires 'base_url' setting")
	}
	return nil
}

// HealthCheck pings the remote server's health endpoint
func (wsp *WhisperServerProvider) HealthCheck(ctx context.Context) error {
	url := wsp.config.BaseURL + wsp.config.HealthPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := wsp.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("whisper-server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper-server health check returned status %d", resp.StatusCode)
	}
	return nil
}
