package test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"whisper-serve/internal/api/errors"
	"whisper-serve/internal/api/v1/dto"
	"whisper-serve/internal/api/v1/handlers"
	"whisper-serve/internal/app/testutil"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockTranscriptionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mockService := &testutil.MockTranscriptionService{}
	return router, mockService
}

// multipartBody builds a multipart body with an optional file part and extra fields
func multipartBody(t *testing.T, fileField, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestTranscriptionHandler_Transcribe(t *testing.T) {
	audioBytes := []byte("RIFF....WAVEfmt fake audio payload")

	tests := []struct {
		name           string
		fileField      string
		filename       string
		content        []byte
		fields         map[string]string
		setupMocks     func(*testutil.MockTranscriptionService)
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:      "successful transcription",
			fileField: "file",
			filename:  "meeting.wav",
			content:   audioBytes,
			setupMocks: func(ms *testutil.MockTranscriptionService) {
				ms.On("Transcribe", mock.Anything, mock.Anything, "meeting.wav", mock.Anything).
					Return(&dto.TranscriptionResponse{
						Text:     "hello world",
						Language: "en",
						Duration: 2.5,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "hello world", body["text"])
				assert.Equal(t, "en", body["language"])
				assert.Equal(t, 2.5, body["duration"])
			},
		},
		{
			name:      "no speech yields empty text",
			fileField: "file",
			filename:  "silence.wav",
			content:   audioBytes,
			setupMocks: func(ms *testutil.MockTranscriptionService) {
				ms.On("Transcribe", mock.Anything, mock.Anything, "silence.wav", mock.Anything).
					Return(&dto.TranscriptionResponse{Text: ""}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "", body["text"])
			},
		},
		{
			name:           "missing file field",
			fileField:      "",
			setupMocks:     func(ms *testutil.MockTranscriptionService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "bad_request", body["kind"])
				assert.Equal(t, "No file uploaded", body["message"])
			},
		},
		{
			name:           "empty file",
			fileField:      "file",
			filename:       "empty.wav",
			content:        nil,
			setupMocks:     func(ms *testutil.MockTranscriptionService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "bad_request", body["kind"])
			},
		},
		{
			name:           "invalid response format",
			fileField:      "file",
			filename:       "meeting.wav",
			content:        audioBytes,
			fields:         map[string]string{"response_format": "xml"},
			setupMocks:     func(ms *testutil.MockTranscriptionService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				details := body["details"].(map[string]interface{})
				assert.Contains(t, details, "responseformat")
			},
		},
		{
			name:      "unsupported audio format from service",
			fileField: "file",
			filename:  "notes.txt",
			content:   audioBytes,
			setupMocks: func(ms *testutil.MockTranscriptionService) {
				ms.On("Transcribe", mock.Anything, mock.Anything, "notes.txt", mock.Anything).
					Return(nil, errors.NewBadRequestError("unsupported audio format"))
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "bad_request", body["kind"])
			},
		},
		{
			name:      "backend failure",
			fileField: "file",
			filename:  "meeting.wav",
			content:   audioBytes,
			setupMocks: func(ms *testutil.MockTranscriptionService) {
				ms.On("Transcribe", mock.Anything, mock.Anything, "meeting.wav", mock.Anything).
					Return(nil, errors.NewServiceUnavailableError("the transcription backend could not be reached"))
			},
			expectedStatus: http.StatusBadGateway,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "service_unavailable", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, mockService := setupTestRouter(t)
			tt.setupMocks(mockService)

			handler := handlers.NewTranscriptionHandler(mockService)
			router.POST("/v1/audio/transcriptions", handler.Transcribe)

			body, contentType := multipartBody(t, tt.fileField, tt.filename, tt.content, tt.fields)

			req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &responseBody))

			tt.validateBody(t, responseBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestTranscriptionHandler_Transcribe_FormFieldsReachService(t *testing.T) {
	router, mockService := setupTestRouter(t)

	var gotForm dto.TranscribeForm
	mockService.On("Transcribe", mock.Anything, mock.Anything, "clip.mp3", mock.Anything).
		Run(func(args mock.Arguments) {
			gotForm = args.Get(3).(dto.TranscribeForm)
		}).
		Return(&dto.TranscriptionResponse{Text: "ok"}, nil)

	handler := handlers.NewTranscriptionHandler(mockService)
	router.POST("/v1/audio/transcriptions", handler.Transcribe)

	body, contentType := multipartBody(t, "file", "clip.mp3", []byte("audio"), map[string]string{
		"language":        "es",
		"response_format": "verbose_json",
		"prompt":          "podcast episode",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "es", gotForm.Language)
	assert.Equal(t, "verbose_json", gotForm.ResponseFormat)
	assert.Equal(t, "podcast episode", gotForm.Prompt)
}

func TestTranscriptionHandler_Health(t *testing.T) {
	router, mockService := setupTestRouter(t)
	mockService.On("ModelName").Return("base")

	handler := handlers.NewTranscriptionHandler(mockService)
	router.GET("/health", handler.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "base", body["model"])
}

// The upload reader handed to the service must deliver the file bytes
func TestTranscriptionHandler_Transcribe_StreamsFileContent(t *testing.T) {
	router, mockService := setupTestRouter(t)

	content := []byte("raw audio bytes")
	mockService.On("Transcribe", mock.Anything, mock.Anything, "a.wav", mock.Anything).
		Run(func(args mock.Arguments) {
			got, err := io.ReadAll(args.Get(1).(io.Reader))
			require.NoError(t, err)
			assert.Equal(t, content, got)
		}).
		Return(&dto.TranscriptionResponse{Text: "x"}, nil)

	handler := handlers.NewTranscriptionHandler(mockService)
	router.POST("/v1/audio/transcriptions", handler.Transcribe)

	body, contentType := multipartBody(t, "file", "a.wav", content, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/audio/transcriptions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}
