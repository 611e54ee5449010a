// Package core defines the shared contracts between the ad generation
// pipeline, the speech synthesis pipeline, and their collaborators.
package core

import (
	"context"
	"time"
)

// CompletionRequest describes a single text-generation call: the model to
// use, a system instruction, the user instruction, and the output budget.
type CompletionRequest struct {
	Model     string
	System    string
	UserText  string
	MaxTokens int
}

// TextGenerator is the text-generation backend. Complete produces the raw
// model output for a request; CountTokens returns the input token count the
// backend would charge for the same request.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	CountTokens(ctx context.Context, req CompletionRequest) (int, error)
}

// SpeechRequest describes a single speech synthesis call.
type SpeechRequest struct {
	Text    string
	VoiceID string
	Model   string
}

// SpeechGenerator is the speech synthesis backend. Implementations return a
// complete audio container as raw bytes.
type SpeechGenerator interface {
	Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error)
}

// ObjectStore defines the interface for interacting with a key-value blob store.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// Usage operation kinds.
const (
	UsageOperationGeneration = "generation"
	UsageOperationSynthesis  = "synthesis"
)

// UsageRecord captures the billable footprint of one generation or synthesis
// call, attributed to a campaign.
type UsageRecord struct {
	ID           string
	CampaignID   string
	Operation    string
	Model        string
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	Characters   int64
	Cost         float64
	CreatedAt    time.Time
}

// UsageRecorder persists usage records.
type UsageRecorder interface {
	Record(ctx context.Context, rec UsageRecord) error
}
