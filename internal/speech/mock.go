package speech

import (
	"context"

	"github.com/adforge/ad-voice-service/internal/core"
)

// MockBackend is the synthesis strategy used when no live backend credential
// is configured. It returns a valid silent WAV container sized to the
// script's estimated duration, so callers cannot tell it apart from the live
// strategy by shape.
type MockBackend struct{}

// NewMockBackend creates the mock synthesis backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Synthesize produces silent WAV audio for the request.
func (m *MockBackend) Synthesize(_ context.Context, req core.SpeechRequest) ([]byte, error) {
	return silentWAV(req.Text), nil
}
