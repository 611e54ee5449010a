package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/book-expert/logger"

	"github.com/adforge/ad-voice-service/internal/core"
)

// Script constraints and estimation constants.
const (
	minScriptLength = 10
	// charsPerSecond is the speaking rate used for duration estimates.
	charsPerSecond = 150.0

	charsPerRateUnit = 1000.0

	// DefaultModel is the synthesis model used when the caller does not
	// specify one.
	DefaultModel = "eleven_monolingual_v1"
)

// ErrScriptTooShort indicates a script below the minimum synthesis length.
// Validation errors here wrap core.ErrInvalidInput.
var ErrScriptTooShort = fmt.Errorf(
	"%w: script must be at least %d characters", core.ErrInvalidInput, minScriptLength)

func newUnknownVoiceError(voiceID string) error {
	return fmt.Errorf("%w: unknown voice ID %q (valid: %s)",
		core.ErrInvalidInput, voiceID, validVoiceIDs())
}

// Characters the speaking voice stumbles over: typographic dashes and
// ellipses come out of LLM copy but trip up TTS engines.
var scriptReplacer = strings.NewReplacer(
	"—", ", ",
	"–", ", ",
	"…", "...",
	"\r\n", "\n",
	"\t", " ",
)

// SynthesisResult is the synthesized audio plus its cost accounting.
type SynthesisResult struct {
	Audio           []byte
	VoiceID         string
	DurationSeconds float64
	Cost            float64
}

// Synthesizer turns finished ad scripts into audio through an injected
// backend. Whether the backend is live or the mock is decided at
// construction; results are identically shaped either way.
type Synthesizer struct {
	backend        core.SpeechGenerator
	costPer1KChars float64
	log            *logger.Logger
}

// New creates a Synthesizer using the given backend and per-1000-character
// rate.
func New(backend core.SpeechGenerator, costPer1KChars float64, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		backend:        backend,
		costPer1KChars: costPer1KChars,
		log:            log,
	}
}

// Synthesize produces audio for a script using the given voice. An empty
// model selects DefaultModel. Backend failures are fatal: no retry policy
// applies here.
func (s *Synthesizer) Synthesize(
	ctx context.Context,
	script, voiceID, model string,
) (SynthesisResult, error) {
	if _, ok := LookupVoice(voiceID); !ok {
		return SynthesisResult{}, newUnknownVoiceError(voiceID)
	}

	script = NormalizeScript(script)
	if len(script) < minScriptLength {
		return SynthesisResult{}, ErrScriptTooShort
	}

	if model == "" {
		model = DefaultModel
	}

	cost := s.Cost(script)
	duration := EstimateDuration(script)

	audio, err := s.backend.Synthesize(ctx, core.SpeechRequest{
		Text:    script,
		VoiceID: voiceID,
		Model:   model,
	})
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("synthesize %d chars with voice %q: %w",
			len(script), voiceID, err)
	}

	s.log.Info("Synthesized voice %s: %d chars, %d bytes, ~%.1fs, cost: $%.3f",
		voiceID, len(script), len(audio), duration, cost)

	return SynthesisResult{
		Audio:           audio,
		VoiceID:         voiceID,
		DurationSeconds: duration,
		Cost:            cost,
	}, nil
}

// Cost returns the synthesis cost for a script. Pure function of the
// character count and the configured rate.
func (s *Synthesizer) Cost(script string) float64 {
	return float64(len(script)) / charsPerRateUnit * s.costPer1KChars
}

// EstimateDuration returns the estimated spoken duration of a script in
// seconds.
func EstimateDuration(script string) float64 {
	return float64(len(script)) / charsPerSecond
}

// NormalizeScript trims a script and replaces typography that synthesis
// backends mispronounce. Runs of whitespace collapse to single spaces,
// preserving line breaks.
func NormalizeScript(script string) string {
	script = scriptReplacer.Replace(script)

	lines := strings.Split(script, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}
