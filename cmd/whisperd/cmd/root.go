package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"whisper-serve/cmd/whisperd/cmd/serve"
	"whisper-serve/cmd/whisperd/cmd/transcribe"
	"whisper-serve/cmd/whisperd/cmd/version"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisperd",
	Short: "A local speech-to-text server backed by a whisper model",
	Long: `A local HTTP server that transcribes uploaded audio files.
- The model is loaded once at startup
- POST an audio file to /v1/audio/transcriptions to get its text
- GET /health reports the loaded model`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
