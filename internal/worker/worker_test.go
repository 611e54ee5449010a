// Package worker_test tests the NATS worker for the ad-voice-service.
package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/ad-voice-service/internal/adgen"
	"github.com/adforge/ad-voice-service/internal/config"
	"github.com/adforge/ad-voice-service/internal/core"
	"github.com/adforge/ad-voice-service/internal/events"
	"github.com/adforge/ad-voice-service/internal/speech"
	"github.com/adforge/ad-voice-service/internal/worker"
)

var errMockUpload = errors.New("mock upload error")

const testCopyResponse = `{"tagline": "Brew Bold", "script": "Wake up to bold flavor,` +
	` every single morning. Visit us today.", "cta": "Visit us today", "tone": "casual"}`

// mockObjectStore is a mock implementation of the core.ObjectStore interface.
type mockObjectStore struct {
	uploadShouldFail bool
	uploadedKey      string
	uploadedData     []byte
}

func (m *mockObjectStore) Download(_ context.Context, _ string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (m *mockObjectStore) Upload(_ context.Context, key string, data []byte) error {
	if m.uploadShouldFail {
		return errMockUpload
	}

	m.uploadedKey = key
	m.uploadedData = data

	return nil
}

// mockTextBackend is a deterministic core.TextGenerator.
type mockTextBackend struct{}

func (m *mockTextBackend) Complete(_ context.Context, _ core.CompletionRequest) (string, error) {
	return testCopyResponse, nil
}

func (m *mockTextBackend) CountTokens(_ context.Context, _ core.CompletionRequest) (int, error) {
	return 150, nil
}

// mockUsageRecorder captures usage records.
type mockUsageRecorder struct {
	mu      sync.Mutex
	records []core.UsageRecord
}

func (m *mockUsageRecorder) Record(_ context.Context, rec core.UsageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)

	return nil
}

func (m *mockUsageRecorder) all() []core.UsageRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]core.UsageRecord(nil), m.records...)
}

func createTestNatsClient(t *testing.T) *nats.Conn {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	opts.StoreDir = t.TempDir()
	server := test.RunServer(&opts)

	natsConnection, err := nats.Connect(server.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	t.Cleanup(func() {
		natsConnection.Close()
		server.Shutdown()
	})

	return natsConnection
}

func testGenerationConfig() config.GenerationConfig {
	cfg := config.Config{}
	cfg.ApplyDefaults()

	return cfg.Generation
}

func setupTest(t *testing.T) (*mockObjectStore, *mockUsageRecorder, *nats.Conn) {
	t.Helper()

	natsConnection := createTestNatsClient(t)

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	testLogger, err := logger.New(t.TempDir(), "worker-test.log")
	require.NoError(t, err)

	mockStore := &mockObjectStore{
		uploadShouldFail: false,
		uploadedKey:      "",
		uploadedData:     nil,
	}
	usage := &mockUsageRecorder{mu: sync.Mutex{}, records: nil}

	generator := adgen.New(&mockTextBackend{}, nil, testGenerationConfig(), testLogger)
	synthesizer := speech.New(speech.NewMockBackend(), 0.10, testLogger)

	workerInstance, err := worker.NewNatsWorker(
		natsConnection, jetstreamContext, "ads.job.test",
		mockStore, generator, synthesizer, usage, testLogger,
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = workerInstance.Run(ctx)
	}()

	// Give the subscription a moment to register before tests publish.
	time.Sleep(100 * time.Millisecond)

	return mockStore, usage, natsConnection
}

func testJobEvent() *events.AdJobRequestedEvent {
	return &events.AdJobRequestedEvent{
		Header: events.Header{
			WorkflowID: uuid.NewString(),
			CampaignID: "campaign-42",
			Timestamp:  time.Now().UTC(),
		},
		Product:         "Fresh Roast Coffee",
		Tone:            "casual",
		DurationSeconds: 30,
		VoiceID:         "echo",
		UseCache:        true,
	}
}

func TestHandleMessage_Success(t *testing.T) {
	t.Parallel()

	mockStore, usage, natsConnection := setupTest(t)

	eventData, err := json.Marshal(testJobEvent())
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request("ads.job.test", eventData, 5*time.Second)
	require.NoError(t, err, "Request should succeed and receive a reply")

	var reply events.AdReadyEvent

	err = json.Unmarshal(replyMsg.Data, &reply)
	require.NoError(t, err)

	assert.Equal(t, "campaign-42", reply.Header.CampaignID)
	assert.Equal(t, "Brew Bold", reply.Tagline)
	assert.Equal(t, "Visit us today", reply.CTA)
	assert.Equal(t, "echo", reply.VoiceID)
	assert.Equal(t, string(adgen.TierCheap), reply.ModelTier)
	assert.Positive(t, reply.TotalCost)
	assert.Positive(t, reply.AudioDurationSeconds)

	assert.Equal(t, reply.AudioKey, mockStore.uploadedKey)
	assert.Contains(t, reply.AudioKey, "campaign-42/")
	assert.Equal(t, "RIFF", string(mockStore.uploadedData[:4]))

	records := usage.all()
	require.Len(t, records, 2)
	assert.Equal(t, core.UsageOperationGeneration, records[0].Operation)
	assert.Equal(t, core.UsageOperationSynthesis, records[1].Operation)
	assert.Equal(t, "campaign-42", records[0].CampaignID)
	assert.Positive(t, records[1].Characters)
}

func TestHandleMessage_DefaultsVoice(t *testing.T) {
	t.Parallel()

	_, _, natsConnection := setupTest(t)

	event := testJobEvent()
	event.VoiceID = ""

	eventData, err := json.Marshal(event)
	require.NoError(t, err)

	replyMsg, err := natsConnection.Request("ads.job.test", eventData, 5*time.Second)
	require.NoError(t, err)

	var reply events.AdReadyEvent

	err = json.Unmarshal(replyMsg.Data, &reply)
	require.NoError(t, err)

	assert.Equal(t, "alloy", reply.VoiceID)
}

func TestHandleMessage_InvalidJobGetsNoReply(t *testing.T) {
	t.Parallel()

	mockStore, usage, natsConnection := setupTest(t)

	event := testJobEvent()
	event.Tone = "angry"

	eventData, err := json.Marshal(event)
	require.NoError(t, err)

	_, err = natsConnection.Request("ads.job.test", eventData, 500*time.Millisecond)
	require.Error(t, err, "invalid jobs are logged, not replied to")

	assert.Empty(t, mockStore.uploadedKey)
	assert.Empty(t, usage.all())
}

func TestHandleMessage_UploadFailureGetsNoReply(t *testing.T) {
	t.Parallel()

	mockStore, _, natsConnection := setupTest(t)
	mockStore.uploadShouldFail = true

	eventData, err := json.Marshal(testJobEvent())
	require.NoError(t, err)

	_, err = natsConnection.Request("ads.job.test", eventData, 500*time.Millisecond)
	require.Error(t, err)
}
