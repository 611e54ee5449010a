// Package adgen generates ad copy through a text-generation backend with
// cost-tier selection, response caching, retry on transient failures, and
// cost estimation.
package adgen

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Tone is the brand voice requested for an ad.
type Tone string

// The fixed set of supported tones.
const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneEnergetic    Tone = "energetic"
	ToneLuxury       Tone = "luxury"
	TonePlayful      Tone = "playful"
)

// Tier is the cost/quality class of the text-generation backend.
type Tier string

// The two cost tiers, each with a distinct per-token rate pair.
const (
	TierCheap     Tier = "cheap"
	TierExpensive Tier = "expensive"
)

// Duration bounds in seconds for a generated ad.
const (
	MinDurationSeconds = 15
	MaxDurationSeconds = 60
)

const minProductLength = 2

// Tier selection scoring.
const (
	productLengthDivisor   = 10
	keywordScore           = 3
	longDurationScore      = 2
	longDurationThreshold  = 30
	extraDurationThreshold = 45
	demandingToneScore     = 2
	expensiveTierThreshold = 6
)

// Product keywords that signal a demanding brief regardless of length.
var complexityKeywords = []string{"premium", "luxury", "enterprise"}

// GenerationRequest is one immutable ad copy brief.
type GenerationRequest struct {
	Product         string
	Tone            Tone
	DurationSeconds int
}

// GenerationResult is the finished copy plus its cost accounting. The
// generator retains no reference after returning it.
type GenerationResult struct {
	Tagline       string
	Script        string
	CTA           string
	Tone          string
	InputTokens   int
	OutputTokens  int
	TotalTokens   int
	EstimatedCost float64
	Tier          Tier
	Model         string
	CacheHit      bool
}

// SelectTier chooses the cost tier for a brief. It is a pure function of its
// inputs: a running complexity score crosses into the expensive tier only for
// long or keyword-heavy products, long durations, and demanding tones.
func SelectTier(product string, durationSeconds int, tone Tone) Tier {
	score := len(product) / productLengthDivisor

	lowered := strings.ToLower(product)
	for _, keyword := range complexityKeywords {
		if strings.Contains(lowered, keyword) {
			score += keywordScore

			break
		}
	}

	if durationSeconds > longDurationThreshold {
		score += longDurationScore
	}

	if durationSeconds > extraDurationThreshold {
		score += longDurationScore
	}

	if tone == ToneLuxury || tone == ToneProfessional || tone == ToneEnergetic {
		score += demandingToneScore
	}

	if score > expensiveTierThreshold {
		return TierExpensive
	}

	return TierCheap
}

// Fingerprint returns the deterministic cache key for a brief. SHA-256 keeps
// collisions out of reach at any realistic cache size.
func Fingerprint(product string, tone Tone, durationSeconds int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%s:%d", product, tone, durationSeconds))

	return hex.EncodeToString(sum[:])
}

func validTones() []Tone {
	return []Tone{ToneProfessional, ToneCasual, ToneEnergetic, ToneLuxury, TonePlayful}
}

func isValidTone(tone Tone) bool {
	for _, t := range validTones() {
		if tone == t {
			return true
		}
	}

	return false
}
