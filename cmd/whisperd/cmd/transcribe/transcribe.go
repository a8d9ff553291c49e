package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"whisper-serve/internal/app/api/provider"
	"whisper-serve/internal/config"
)

var (
	language string
	timeout  int
)

// Cmd transcribes a single local file and prints the text to stdout
var Cmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a single audio file and print the text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	Cmd.Flags().StringVarP(&language, "language", "l", "", "language code (overrides WHISPER_LANGUAGE)")
	Cmd.Flags().IntVar(&timeout, "timeout", 600, "transcription timeout in seconds")
}

func run(inputFilePath string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if _, err := os.Stat(inputFilePath); err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	settings, err := cfg.ProviderSettings()
	if err != nil {
		return fmt.Errorf("provider configuration error: %w", err)
	}
	backend, err := provider.CreateProvider(cfg.Whisper.Provider, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize transcription backend: %w", err)
	}
	defer func() {
		if closer, ok := backend.(provider.CloseableProvider); ok {
			closer.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	response, err := backend.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath: inputFilePath,
		Language:      language,
	})
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	fmt.Println(response.Text)
	return nil
}
