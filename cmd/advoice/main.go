// advoice is the operator CLI for the ad-voice-service: one-shot copy
// generation, speech synthesis, voice listing, and usage reporting.
package main

import (
	"fmt"
	"os"

	"github.com/book-expert/logger"
	"github.com/spf13/cobra"

	"github.com/adforge/ad-voice-service/internal/config"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "advoice",
		Short:   "Audio ad generation toolkit",
		Version: version,
	}

	root.AddCommand(
		newGenerateCmd(),
		newSynthesizeCmd(),
		newVoicesCmd(),
		newUsageCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLILogger() (*logger.Logger, error) {
	log, err := logger.New(os.TempDir(), "advoice.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// loadConfigOrDefaults loads the service configuration, falling back to the
// built-in defaults when no configuration source is available. The CLI stays
// usable on a bare development machine.
func loadConfigOrDefaults(log *logger.Logger) *config.Config {
	cfg, err := config.Load(log)
	if err != nil {
		log.Warn("No configuration available, using defaults: %v", err)

		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}

	return cfg
}
