package api

// Transcriber is the minimal transcription contract: an audio file path in,
// the full transcribed text out. Every backend in the provider package
// implements it; code that only needs plain text (the transcribe CLI
// command) can depend on this instead of the full provider interface.
type Transcriber interface {
	Transcript(inputFilePath string) (string, error)
}
