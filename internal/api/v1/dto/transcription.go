package dto

// TranscribeForm holds the optional multipart form fields accompanying the
// uploaded file, OpenAI-style.
type TranscribeForm struct {
	Model          string  `form:"model"`
	Language       string  `form:"language" binding:"omitempty,max=16"`
	Prompt         string  `form:"prompt" binding:"omitempty,max=1024"`
	Temperature    float32 `form:"temperature" binding:"omitempty,gte=0,lte=1"`
	ResponseFormat string  `form:"response_format" binding:"omitempty,oneof=json text verbose_json"`
}

// TranscriptionSegment is a time-segmented piece of the transcript, included
// in verbose_json responses.
type TranscriptionSegment struct {
	ID    int     `json:"id"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptionResponse is the JSON body returned by the transcription
// endpoint. Text is always present, the rest only when the backend reports
// it (or verbose_json is requested, for segments).
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language,omitempty"`
	Duration float64                `json:"duration,omitempty"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// HealthResponse is the JSON body returned by the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}
