// main package for the ad-voice-service
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/nats-io/nats.go"

	"github.com/adforge/ad-voice-service/internal/adgen"
	"github.com/adforge/ad-voice-service/internal/cache"
	"github.com/adforge/ad-voice-service/internal/config"
	"github.com/adforge/ad-voice-service/internal/core"
	"github.com/adforge/ad-voice-service/internal/objectstore"
	"github.com/adforge/ad-voice-service/internal/speech"
	"github.com/adforge/ad-voice-service/internal/textgen"
	"github.com/adforge/ad-voice-service/internal/tracker"
	"github.com/adforge/ad-voice-service/internal/worker"
)

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "ad-voice-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// A temporary logger covers the window before configuration is loaded.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	return runService(cfg, finalLog)
}

func runService(cfg *config.Config, log *logger.Logger) error {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		return fmt.Errorf("failed to create object store: %w", err)
	}

	usage, err := tracker.New(cfg.Tracker.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open usage tracker: %w", err)
	}

	defer func() {
		closeErr := usage.Close()
		if closeErr != nil {
			log.Error("Failed to close usage tracker: %v", closeErr)
		}
	}()

	generator := buildGenerator(cfg, log)
	synthesizer := speech.New(buildSpeechBackend(cfg, log), cfg.Speech.CostPer1KChars, log)

	natsWorker, err := worker.NewNatsWorker(
		natsConnection,
		jetstreamContext,
		cfg.NATS.AdJobSubject,
		store,
		generator,
		synthesizer,
		usage,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.System("Ad-Voice-Service initialized. Listening for jobs on subject: %s",
		cfg.NATS.AdJobSubject)

	err = natsWorker.Run(ctx)
	if err != nil {
		return fmt.Errorf("worker stopped with error: %w", err)
	}

	return nil
}

func buildGenerator(cfg *config.Config, log *logger.Logger) *adgen.Generator {
	textBackend := textgen.NewHTTPClient(
		cfg.Generation.BaseURL,
		cfg.TextAPIKey(),
		time.Duration(cfg.Generation.TimeoutSeconds)*time.Second,
	)

	var results *cache.Cache[adgen.GenerationResult]
	if cfg.Cache.Enabled {
		results = cache.New[adgen.GenerationResult](
			time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	}

	return adgen.New(textBackend, results, cfg.Generation, log)
}

// buildSpeechBackend selects the synthesis strategy: live when a credential
// is configured, mock silence otherwise.
func buildSpeechBackend(cfg *config.Config, log *logger.Logger) core.SpeechGenerator {
	apiKey := cfg.SpeechAPIKey()
	if apiKey == "" {
		log.Warn("No speech backend credential configured, using mock synthesis")

		return speech.NewMockBackend()
	}

	return speech.NewHTTPClient(
		cfg.Speech.BaseURL,
		apiKey,
		time.Duration(cfg.Speech.TimeoutSeconds)*time.Second,
	)
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
