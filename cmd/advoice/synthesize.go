package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/adforge/ad-voice-service/internal/core"
	"github.com/adforge/ad-voice-service/internal/speech"
)

const outputFilePermissions = 0o600

func newSynthesizeCmd() *cobra.Command {
	var (
		script  string
		voiceID string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Synthesize an ad script into a WAV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newCLILogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			cfg := loadConfigOrDefaults(log)

			var backend core.SpeechGenerator
			if apiKey := cfg.SpeechAPIKey(); apiKey == "" {
				log.Warn("No speech API key set, producing silent mock audio")

				backend = speech.NewMockBackend()
			} else {
				backend = speech.NewHTTPClient(
					cfg.Speech.BaseURL,
					apiKey,
					time.Duration(cfg.Speech.TimeoutSeconds)*time.Second,
				)
			}

			synthesizer := speech.New(backend, cfg.Speech.CostPer1KChars, log)

			result, err := synthesizer.Synthesize(
				cmd.Context(), script, voiceID, cfg.Speech.Model,
			)
			if err != nil {
				return err
			}

			err = os.WriteFile(outPath, result.Audio, outputFilePermissions)
			if err != nil {
				return fmt.Errorf("failed to write audio file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d bytes to %s\n", len(result.Audio), outPath)
			fmt.Fprintf(out, "Voice:    %s\n", result.VoiceID)
			fmt.Fprintf(out, "Duration: %.1fs\n", result.DurationSeconds)
			fmt.Fprintf(out, "Cost:     $%.4f\n", result.Cost)

			return nil
		},
	}

	cmd.Flags().StringVar(&script, "script", "", "Ad script to synthesize")
	cmd.Flags().StringVar(&voiceID, "voice", "alloy", "Voice to narrate with")
	cmd.Flags().StringVar(&outPath, "out", "output.wav", "Destination WAV file")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}
