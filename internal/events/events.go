// Package events defines the NATS event schemas for the ad-voice-service.
package events

import "time"

// Header carries the identity of one ad job through the pipeline.
type Header struct {
	WorkflowID string    `json:"workflow_id"`
	CampaignID string    `json:"campaign_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// AdJobRequestedEvent asks the worker to generate and synthesize one ad.
type AdJobRequestedEvent struct {
	Header          Header `json:"header"`
	Product         string `json:"product"`
	Tone            string `json:"tone"`
	DurationSeconds int    `json:"duration_seconds"`
	VoiceID         string `json:"voice_id"`
	UseCache        bool   `json:"use_cache"`
}

// AdReadyEvent reports a finished ad: the copy, where the rendered audio
// lives in the object store, and what the job cost.
type AdReadyEvent struct {
	Header               Header  `json:"header"`
	AudioKey             string  `json:"audio_key"`
	Tagline              string  `json:"tagline"`
	Script               string  `json:"script"`
	CTA                  string  `json:"cta"`
	VoiceID              string  `json:"voice_id"`
	ModelTier            string  `json:"model_tier"`
	CacheHit             bool    `json:"cache_hit"`
	AudioDurationSeconds float64 `json:"audio_duration_seconds"`
	TotalTokens          int     `json:"total_tokens"`
	TotalCost            float64 `json:"total_cost"`
}
