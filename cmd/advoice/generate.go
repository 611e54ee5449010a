package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/adforge/ad-voice-service/internal/adgen"
	"github.com/adforge/ad-voice-service/internal/textgen"
)

func newGenerateCmd() *cobra.Command {
	var (
		product  string
		tone     string
		duration int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ad copy for a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newCLILogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			cfg := loadConfigOrDefaults(log)

			backend := textgen.NewHTTPClient(
				cfg.Generation.BaseURL,
				cfg.TextAPIKey(),
				time.Duration(cfg.Generation.TimeoutSeconds)*time.Second,
			)
			generator := adgen.New(backend, nil, cfg.Generation, log)

			result, err := generator.Generate(cmd.Context(), adgen.GenerationRequest{
				Product:         product,
				Tone:            adgen.Tone(tone),
				DurationSeconds: duration,
			}, !noCache)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tagline: %s\n", result.Tagline)
			fmt.Fprintf(out, "Script:  %s\n", result.Script)
			fmt.Fprintf(out, "CTA:     %s\n", result.CTA)
			fmt.Fprintf(out, "Tone:    %s\n", result.Tone)
			fmt.Fprintf(out, "Model:   %s (%s tier)\n", result.Model, result.Tier)
			fmt.Fprintf(out, "Tokens:  %d in / %d out\n", result.InputTokens, result.OutputTokens)
			fmt.Fprintf(out, "Cost:    $%.4f\n", result.EstimatedCost)

			return nil
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product name or description")
	cmd.Flags().StringVar(&tone, "tone", "casual",
		"Brand tone (professional, casual, energetic, luxury, playful)")
	cmd.Flags().IntVar(&duration, "duration", 30, "Ad duration in seconds (15-60)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the response cache")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
