package adgen

import "fmt"

// Words-per-second heuristic used to target the script length: a duration of
// N seconds asks for roughly N/3 words.
const wordsPerSecondDivisor = 3

// Style directives embedded into the system instruction per tone.
var toneDirectives = map[Tone]string{
	ToneProfessional: "Use formal, business-focused language. Emphasize reliability, expertise, and ROI.",
	ToneCasual:       "Use friendly, conversational language. Keep it light and approachable.",
	ToneEnergetic:    "Use dynamic, exciting language. Create urgency and enthusiasm.",
	ToneLuxury:       "Use premium, sophisticated language. Emphasize exclusivity and craftsmanship.",
	TonePlayful:      "Use humorous, creative language. Don't take yourself too seriously.",
}

const neutralDirective = "Use neutral, clear language."

const systemPromptFormat = `You are a world-class copywriter specializing in radio and podcast advertising.
Generate compelling, concise ad copy that drives action.

Tone: %s

IMPORTANT: Respond ONLY with valid JSON in this format, no other text:
{
  "tagline": "2-5 words, memorable and punchy",
  "script": "The full ad script (15-60 seconds when read aloud)",
  "cta": "A strong call-to-action",
  "tone": "%s"
}

Requirements:
- Tagline must be memorable and brand-building
- Script should be conversational and natural-sounding
- Include a specific, compelling CTA
- Keep sentences short for audio delivery
- Avoid technical jargon unless essential`

const userPromptFormat = `Generate a %d-second ad for:
Product/Service: %s
Tone: %s
Duration: %d seconds (approximately %d words)

Create an ad that would work for radio, podcast, or audio streaming platforms.
Make it memorable, persuasive, and appropriate for the brand tone.`

// buildSystemPrompt embeds the tone's style directive and the strict
// JSON-only response contract.
func buildSystemPrompt(tone Tone) string {
	directive, ok := toneDirectives[tone]
	if !ok {
		directive = neutralDirective
	}

	return fmt.Sprintf(systemPromptFormat, directive, tone)
}

// buildUserPrompt embeds the brief and the word-count target.
func buildUserPrompt(product string, tone Tone, durationSeconds int) string {
	wordTarget := durationSeconds / wordsPerSecondDivisor

	return fmt.Sprintf(
		userPromptFormat,
		durationSeconds,
		product,
		tone,
		durationSeconds,
		wordTarget,
	)
}
