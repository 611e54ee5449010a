// Package speech synthesizes finished ad scripts into audio, either through
// a live TTS backend or a deterministic mock that produces well-formed
// silent WAV data for development.
package speech

import (
	"sort"
	"strings"
)

// Voice is static metadata describing one synthesis voice.
type Voice struct {
	ID          string
	Name        string
	Description string
	Gender      string
	Accent      string
}

// The fixed set of known voices.
var voices = map[string]Voice{
	"alloy": {
		ID:          "alloy",
		Name:        "Alloy",
		Description: "Neutral, clear voice - good for technical content",
		Gender:      "unspecified",
		Accent:      "american",
	},
	"echo": {
		ID:          "echo",
		Name:        "Echo",
		Description: "Warm, friendly voice - great for consumer products",
		Gender:      "male",
		Accent:      "american",
	},
	"fable": {
		ID:          "fable",
		Name:        "Fable",
		Description: "Energetic, young voice - perfect for dynamic brands",
		Gender:      "female",
		Accent:      "british",
	},
	"onyx": {
		ID:          "onyx",
		Name:        "Onyx",
		Description: "Deep, professional voice - ideal for luxury brands",
		Gender:      "male",
		Accent:      "american",
	},
	"nova": {
		ID:          "nova",
		Name:        "Nova",
		Description: "Bright, modern voice - contemporary and engaging",
		Gender:      "female",
		Accent:      "american",
	},
}

// Voices returns the known voices ordered by ID.
func Voices() []Voice {
	list := make([]Voice, 0, len(voices))
	for _, v := range voices {
		list = append(list, v)
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}

// LookupVoice returns the metadata for a voice ID.
func LookupVoice(id string) (Voice, bool) {
	v, ok := voices[id]

	return v, ok
}

func validVoiceIDs() string {
	ids := make([]string, 0, len(voices))
	for id := range voices {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return strings.Join(ids, ", ")
}
