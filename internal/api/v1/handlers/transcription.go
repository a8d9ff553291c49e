package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"whisper-serve/internal/api/errors"
	"whisper-serve/internal/api/middleware"
	"whisper-serve/internal/api/v1/dto"
	"whisper-serve/internal/api/v1/services"
)

// TranscriptionHandler handles the transcription and health endpoints
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

// Health handles GET /health. It reports the configured model without ever
// touching the backend.
func (h *TranscriptionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Model:  h.service.ModelName(),
	})
}

// Transcribe handles POST /v1/audio/transcriptions.
// Accepts multipart/form-data with a required "file" field and optional
// OpenAI-style fields (model, language, prompt, temperature, response_format).
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	var form dto.TranscribeForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandleError(c, formValidationError(err))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("No file uploaded"))
		return
	}
	defer file.Close()

	if header.Size == 0 {
		middleware.HandleError(c, errors.NewBadRequestError("Uploaded file is empty"))
		return
	}

	response, err := h.service.Transcribe(c.Request.Context(), file, header.Filename, form)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// formValidationError converts binding errors into the validation envelope
func formValidationError(err error) error {
	validationErrors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrs {
			field := strings.ToLower(fieldError.Field())

			switch fieldError.Tag() {
			case "max":
				validationErrors[field] = "is too long"
			case "oneof":
				validationErrors[field] = "must be one of the allowed values"
			case "gte", "lte":
				validationErrors[field] = "is out of range"
			default:
				validationErrors[field] = "is invalid"
			}
		}
	} else {
		validationErrors["request"] = "invalid form data"
	}

	return errors.NewValidationError("Validation failed", validationErrors)
}
