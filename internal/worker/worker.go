// Package worker provides a NATS worker that processes ad generation jobs.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/adforge/ad-voice-service/internal/adgen"
	"github.com/adforge/ad-voice-service/internal/core"
	"github.com/adforge/ad-voice-service/internal/events"
	"github.com/adforge/ad-voice-service/internal/speech"
)

// Generous enough for a full retry budget against a slow backend.
const handleMessageTimeout = 60 * time.Second

const defaultVoiceID = "alloy"

// NatsWorker listens for ad jobs on a NATS subject and processes them:
// copy generation, speech synthesis, audio upload, usage recording, reply.
type NatsWorker struct {
	natsConnection   *nats.Conn
	jetstreamContext nats.JetStreamContext
	subject          string
	store            core.ObjectStore
	generator        *adgen.Generator
	synthesizer      *speech.Synthesizer
	usage            core.UsageRecorder
	log              *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	jetstreamContext nats.JetStreamContext,
	subject string,
	store core.ObjectStore,
	generator *adgen.Generator,
	synthesizer *speech.Synthesizer,
	usage core.UsageRecorder,
	log *logger.Logger,
) (*NatsWorker, error) {
	return &NatsWorker{
		natsConnection:   natsConnection,
		jetstreamContext: jetstreamContext,
		subject:          subject,
		store:            store,
		generator:        generator,
		synthesizer:      synthesizer,
		usage:            usage,
		log:              log,
	}, nil
}

// Run starts the worker and begins listening for messages.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := w.parseEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse ad job event: %v", err)

		return
	}

	replyEvent, processErr := w.processAdJob(ctx, event)
	if processErr != nil {
		w.log.Error("Failed to process ad job for workflow %s: %v",
			event.Header.WorkflowID, processErr)

		return
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error("Failed to publish reply event for workflow %s: %v",
			event.Header.WorkflowID, err)
	}
}

// processAdJob runs the full pipeline for one job: generate copy, synthesize
// speech, upload the audio, and record usage per campaign.
func (w *NatsWorker) processAdJob(
	ctx context.Context,
	event *events.AdJobRequestedEvent,
) (*events.AdReadyEvent, error) {
	genResult, err := w.generator.Generate(ctx, adgen.GenerationRequest{
		Product:         event.Product,
		Tone:            adgen.Tone(event.Tone),
		DurationSeconds: event.DurationSeconds,
	}, event.UseCache)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ad copy: %w", err)
	}

	w.recordGenerationUsage(ctx, event.Header.CampaignID, genResult)

	voiceID := event.VoiceID
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	synthResult, err := w.synthesizer.Synthesize(ctx, genResult.Script, voiceID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize ad script: %w", err)
	}

	w.recordSynthesisUsage(ctx, event.Header.CampaignID, genResult.Script, synthResult)

	audioKey := fmt.Sprintf("%s/%s.wav", event.Header.CampaignID, uuid.NewString())

	err = w.store.Upload(ctx, audioKey, synthResult.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	return &events.AdReadyEvent{
		Header:               event.Header,
		AudioKey:             audioKey,
		Tagline:              genResult.Tagline,
		Script:               genResult.Script,
		CTA:                  genResult.CTA,
		VoiceID:              synthResult.VoiceID,
		ModelTier:            string(genResult.Tier),
		CacheHit:             genResult.CacheHit,
		AudioDurationSeconds: synthResult.DurationSeconds,
		TotalTokens:          genResult.TotalTokens,
		TotalCost:            genResult.EstimatedCost + synthResult.Cost,
	}, nil
}

// Usage recording is best-effort: a tracker failure must not fail the job.
func (w *NatsWorker) recordGenerationUsage(
	ctx context.Context,
	campaignID string,
	result adgen.GenerationResult,
) {
	if w.usage == nil {
		return
	}

	err := w.usage.Record(ctx, core.UsageRecord{
		ID:           "",
		CampaignID:   campaignID,
		Operation:    core.UsageOperationGeneration,
		Model:        result.Model,
		InputTokens:  int64(result.InputTokens),
		OutputTokens: int64(result.OutputTokens),
		TotalTokens:  int64(result.TotalTokens),
		Characters:   0,
		Cost:         result.EstimatedCost,
		CreatedAt:    time.Time{},
	})
	if err != nil {
		w.log.Warn("Failed to record generation usage for campaign %s: %v", campaignID, err)
	}
}

func (w *NatsWorker) recordSynthesisUsage(
	ctx context.Context,
	campaignID, script string,
	result speech.SynthesisResult,
) {
	if w.usage == nil {
		return
	}

	err := w.usage.Record(ctx, core.UsageRecord{
		ID:           "",
		CampaignID:   campaignID,
		Operation:    core.UsageOperationSynthesis,
		Model:        speech.DefaultModel,
		InputTokens:  0,
		OutputTokens: 0,
		TotalTokens:  0,
		Characters:   int64(len(script)),
		Cost:         result.Cost,
		CreatedAt:    time.Time{},
	})
	if err != nil {
		w.log.Warn("Failed to record synthesis usage for campaign %s: %v", campaignID, err)
	}
}

// publishReplyEvent marshals and responds with the AdReadyEvent.
func (w *NatsWorker) publishReplyEvent(msg *nats.Msg, replyEvent *events.AdReadyEvent) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func (w *NatsWorker) parseEvent(msg *nats.Msg) (*events.AdJobRequestedEvent, error) {
	var event events.AdJobRequestedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}
