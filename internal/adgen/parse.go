package adgen

import (
	"encoding/json"
	"strings"
)

// Fallback values when the backend response carries no parseable JSON.
const (
	defaultCTA   = "Learn more"
	fallbackTone = "neutral"
)

// adCopy is the structured payload the backend is instructed to return.
type adCopy struct {
	Tagline string `json:"tagline"`
	Script  string `json:"script"`
	CTA     string `json:"cta"`
	Tone    string `json:"tone"`
}

// parseAdCopy extracts structured copy from a raw backend response. The
// response is expected to contain one JSON object; the substring between the
// first '{' and the last '}' is parsed, with missing fields defaulting to
// empty strings. Any parse failure degrades to a best-effort result instead
// of an error: the first line becomes the tagline and the whole response the
// script. A best-effort ad is better than no ad.
func parseAdCopy(raw string) adCopy {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start >= 0 && end > start {
		var parsed adCopy

		err := json.Unmarshal([]byte(raw[start:end+1]), &parsed)
		if err == nil {
			return parsed
		}
	}

	return adCopy{
		Tagline: firstLine(raw),
		Script:  raw,
		CTA:     defaultCTA,
		Tone:    fallbackTone,
	}
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")

	return line
}
