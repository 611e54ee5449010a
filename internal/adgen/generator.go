package adgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/adforge/ad-voice-service/internal/cache"
	"github.com/adforge/ad-voice-service/internal/config"
	"github.com/adforge/ad-voice-service/internal/core"
	"github.com/adforge/ad-voice-service/internal/retry"
)

// Input token count used when the token-counting call fails. Counting
// failures are absorbed, never surfaced.
const fallbackInputTokens = 500

const tokensPerRateUnit = 1000.0

// Retry budget for transient backend failures.
const (
	retryMaxAttempts = 3
	retryBaseDelay   = time.Second
	retryJitter      = 100 * time.Millisecond
)

// Validation errors. Each wraps core.ErrInvalidInput so the transport layer
// can classify them without knowing the individual constraints.
var (
	// ErrProductTooShort indicates a product description below the minimum length.
	ErrProductTooShort = fmt.Errorf(
		"%w: product must be at least %d characters", core.ErrInvalidInput, minProductLength)
	// ErrInvalidTone indicates a tone outside the supported set.
	ErrInvalidTone = fmt.Errorf("%w: invalid tone", core.ErrInvalidInput)
	// ErrDurationOutOfRange indicates a duration outside the supported bounds.
	ErrDurationOutOfRange = fmt.Errorf(
		"%w: duration must be between %d and %d seconds",
		core.ErrInvalidInput, MinDurationSeconds, MaxDurationSeconds)
)

func newInvalidToneError(tone Tone) error {
	return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidTone, string(tone), validTones())
}

// Generator produces ad copy through a text-generation backend. A nil result
// cache disables caching globally; per-call opt-out goes through the useCache
// argument of Generate.
type Generator struct {
	backend core.TextGenerator
	results *cache.Cache[GenerationResult]
	cfg     config.GenerationConfig
	policy  retry.Policy
	log     *logger.Logger
}

// New creates a Generator with the default retry policy: three attempts with
// exponential backoff, retrying only timeout-class backend failures.
func New(
	backend core.TextGenerator,
	results *cache.Cache[GenerationResult],
	cfg config.GenerationConfig,
	log *logger.Logger,
) *Generator {
	return NewWithPolicy(backend, results, cfg, defaultPolicy(), log)
}

// NewWithPolicy creates a Generator with an injected retry policy, so the
// backoff timing is testable without real sleeps.
func NewWithPolicy(
	backend core.TextGenerator,
	results *cache.Cache[GenerationResult],
	cfg config.GenerationConfig,
	policy retry.Policy,
	log *logger.Logger,
) *Generator {
	return &Generator{
		backend: backend,
		results: results,
		cfg:     cfg,
		policy:  policy,
		log:     log,
	}
}

// Generate produces ad copy for a brief. Cached results are returned without
// contacting the backend and carry CacheHit=true.
func (g *Generator) Generate(
	ctx context.Context,
	req GenerationRequest,
	useCache bool,
) (GenerationResult, error) {
	err := validateRequest(req)
	if err != nil {
		return GenerationResult{}, err
	}

	key := Fingerprint(req.Product, req.Tone, req.DurationSeconds)

	if useCache && g.results != nil {
		cached, ok := g.results.Get(key)
		if ok {
			cached.CacheHit = true
			g.log.Info("Cache hit for product %q (tone %s, %ds)",
				req.Product, req.Tone, req.DurationSeconds)

			return cached, nil
		}
	}

	result, err := g.generateLive(ctx, req)
	if err != nil {
		return GenerationResult{}, err
	}

	if useCache && g.results != nil {
		g.results.Put(key, result)
	}

	return result, nil
}

func (g *Generator) generateLive(
	ctx context.Context,
	req GenerationRequest,
) (GenerationResult, error) {
	tier := SelectTier(req.Product, req.DurationSeconds, req.Tone)

	completionReq := core.CompletionRequest{
		Model:     g.modelFor(tier),
		System:    buildSystemPrompt(req.Tone),
		UserText:  buildUserPrompt(req.Product, req.Tone, req.DurationSeconds),
		MaxTokens: g.cfg.MaxOutputTokens,
	}

	inputTokens := g.countInputTokens(ctx, completionReq)

	raw, err := g.completeWithRetry(ctx, completionReq)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generate ad copy for %q: %w", req.Product, err)
	}

	copyFields := parseAdCopy(raw)
	outputTokens := int(float64(wordCount(raw)) * g.cfg.OutputTokenRatio)
	cost := g.estimateCost(tier, inputTokens, outputTokens)

	g.log.Info("Generated ad for %q: %d input tokens, ~%d output tokens, cost: $%.4f (%s tier)",
		req.Product, inputTokens, outputTokens, cost, tier)

	return GenerationResult{
		Tagline:       copyFields.Tagline,
		Script:        copyFields.Script,
		CTA:           copyFields.CTA,
		Tone:          copyFields.Tone,
		InputTokens:   inputTokens,
		OutputTokens:  outputTokens,
		TotalTokens:   inputTokens + outputTokens,
		EstimatedCost: cost,
		Tier:          tier,
		Model:         completionReq.Model,
		CacheHit:      false,
	}, nil
}

// countInputTokens asks the backend for the billable input size. A counting
// failure falls back to a fixed estimate instead of failing the generation.
func (g *Generator) countInputTokens(ctx context.Context, req core.CompletionRequest) int {
	count, err := g.backend.CountTokens(ctx, req)
	if err != nil {
		g.log.Warn("Token counting failed, using fallback estimate: %v", err)

		return fallbackInputTokens
	}

	return count
}

func (g *Generator) completeWithRetry(
	ctx context.Context,
	req core.CompletionRequest,
) (string, error) {
	var raw string

	err := g.policy.Do(ctx, func(ctx context.Context) error {
		text, callErr := g.backend.Complete(ctx, req)
		if callErr != nil {
			return callErr
		}

		raw = text

		return nil
	})
	if err != nil {
		return "", err
	}

	return raw, nil
}

func (g *Generator) modelFor(tier Tier) string {
	if tier == TierExpensive {
		return g.cfg.ExpensiveModel
	}

	return g.cfg.CheapModel
}

func (g *Generator) estimateCost(tier Tier, inputTokens, outputTokens int) float64 {
	inputRate := g.cfg.CheapInputCostPer1K
	outputRate := g.cfg.CheapOutputCostPer1K

	if tier == TierExpensive {
		inputRate = g.cfg.ExpensiveInputCostPer1K
		outputRate = g.cfg.ExpensiveOutputCostPer1K
	}

	inputCost := float64(inputTokens) / tokensPerRateUnit * inputRate
	outputCost := float64(outputTokens) / tokensPerRateUnit * outputRate

	return inputCost + outputCost
}

func defaultPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: retryMaxAttempts,
		BaseDelay:   retryBaseDelay,
		Jitter:      retryJitter,
		Retryable:   isTransient,
		Sleep:       nil,
	}
}

func isTransient(err error) bool {
	return errors.Is(err, core.ErrBackendTimeout)
}

func validateRequest(req GenerationRequest) error {
	if len(req.Product) < minProductLength {
		return ErrProductTooShort
	}

	if !isValidTone(req.Tone) {
		return newInvalidToneError(req.Tone)
	}

	if req.DurationSeconds < MinDurationSeconds || req.DurationSeconds > MaxDurationSeconds {
		return ErrDurationOutOfRange
	}

	return nil
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
