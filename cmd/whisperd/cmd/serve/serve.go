package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"whisper-serve/internal/api/server"
	"whisper-serve/internal/app/api/provider"
	"whisper-serve/internal/config"
)

var (
	host string
	port string
)

// Cmd starts the HTTP transcription server
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription HTTP server",
	Long: `Start the HTTP server. The configured whisper backend is initialized
before the listener accepts traffic, so a missing model fails fast.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides SERVER_HOST)")
	Cmd.Flags().StringVar(&port, "port", "", "listen port (overrides SERVER_PORT)")
}

func run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port != "" {
		cfg.Server.Port = port
	}

	// Build the backend first; the model loads here, once
	settings, err := cfg.ProviderSettings()
	if err != nil {
		return fmt.Errorf("provider configuration error: %w", err)
	}
	backend, err := provider.CreateProvider(cfg.Whisper.Provider, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize transcription backend: %w", err)
	}
	defer closeBackend(backend, logger)

	logger.Info("Transcription backend ready",
		"provider", cfg.Whisper.Provider,
		"model", backend.GetProviderInfo().Model,
	)

	srv := server.NewServer(cfg.Server, backend, logger)
	if err := srv.Start(); err != nil {
		return err
	}

	// Block until interrupted, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Received shutdown signal", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

func closeBackend(backend provider.TranscriptionProvider, logger *slog.Logger) {
	if closer, ok := backend.(provider.CloseableProvider); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close transcription backend", "error", err)
		}
	}
}
