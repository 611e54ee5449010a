package adgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdCopyCleanJSON(t *testing.T) {
	t.Parallel()

	parsed := parseAdCopy(`{"tagline": "Brew Better", "script": "Wake up right.", ` +
		`"cta": "Try it today", "tone": "casual"}`)

	assert.Equal(t, "Brew Better", parsed.Tagline)
	assert.Equal(t, "Wake up right.", parsed.Script)
	assert.Equal(t, "Try it today", parsed.CTA)
	assert.Equal(t, "casual", parsed.Tone)
}

func TestParseAdCopyJSONWithSurroundingText(t *testing.T) {
	t.Parallel()

	raw := "Here is your ad:\n{\"tagline\": \"Go Far\", \"script\": \"Travel light.\", " +
		"\"cta\": \"Book now\", \"tone\": \"energetic\"}\nHope you like it!"

	parsed := parseAdCopy(raw)

	assert.Equal(t, "Go Far", parsed.Tagline)
	assert.Equal(t, "Travel light.", parsed.Script)
}

func TestParseAdCopyMissingFieldsDefaultToEmpty(t *testing.T) {
	t.Parallel()

	parsed := parseAdCopy(`{"tagline": "Solo"}`)

	assert.Equal(t, "Solo", parsed.Tagline)
	assert.Empty(t, parsed.Script)
	assert.Empty(t, parsed.CTA)
	assert.Empty(t, parsed.Tone)
}

func TestParseAdCopyPlainTextFallback(t *testing.T) {
	t.Parallel()

	raw := "Best coffee in town!\nCome visit us at the corner of 5th and Main."

	parsed := parseAdCopy(raw)

	assert.Equal(t, "Best coffee in town!", parsed.Tagline)
	assert.Equal(t, raw, parsed.Script)
	assert.Equal(t, defaultCTA, parsed.CTA)
	assert.Equal(t, fallbackTone, parsed.Tone)
}

func TestParseAdCopyMalformedJSONFallback(t *testing.T) {
	t.Parallel()

	raw := `{"tagline": "Broken`

	parsed := parseAdCopy(raw)

	assert.Equal(t, raw, parsed.Script)
	assert.Equal(t, defaultCTA, parsed.CTA)
	assert.Equal(t, fallbackTone, parsed.Tone)
}

func TestBuildSystemPromptEmbedsToneDirective(t *testing.T) {
	t.Parallel()

	prompt := buildSystemPrompt(ToneLuxury)

	assert.Contains(t, prompt, "exclusivity and craftsmanship")
	assert.Contains(t, prompt, `"tone": "luxury"`)
	assert.Contains(t, prompt, "ONLY with valid JSON")
}

func TestBuildUserPromptEmbedsWordTarget(t *testing.T) {
	t.Parallel()

	prompt := buildUserPrompt("Artisan Bread", ToneCasual, 30)

	assert.Contains(t, prompt, "Artisan Bread")
	assert.Contains(t, prompt, "30-second ad")
	assert.Contains(t, prompt, "approximately 10 words")
}
