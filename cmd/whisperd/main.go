package main

import (
	"whisper-serve/cmd/whisperd/cmd"

	// Import providers to register them
	_ "whisper-serve/internal/app/api/openai/whisper"
	_ "whisper-serve/internal/app/api/whisper_cpp"
	_ "whisper-serve/internal/app/api/whisper_server"
)

func main() {
	cmd.Execute()
}
