package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adforge/ad-voice-service/internal/core"
)

func testSpeechRequest() core.SpeechRequest {
	return core.SpeechRequest{
		Text:    testScript,
		VoiceID: "onyx",
		Model:   DefaultModel,
	}
}

func TestHTTPClientSynthesizeSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "/v1/text-to-speech/onyx", request.URL.Path)
			assert.Equal(t, "secret", request.Header.Get(headerAPIKey))
			assert.Equal(t, contentTypeJSON, request.Header.Get(headerContentType))

			var req synthesisRequest

			err := json.NewDecoder(request.Body).Decode(&req)
			require.NoError(t, err)
			assert.Equal(t, testScript, req.Text)
			assert.Equal(t, DefaultModel, req.ModelID)
			assert.InEpsilon(t, defaultStability, req.VoiceSettings.Stability, 1e-9)
			assert.InEpsilon(t, defaultSimilarityBoost, req.VoiceSettings.SimilarityBoost, 1e-9)

			_, _ = responseWriter.Write([]byte("RIFF....WAVE"))
		}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", 5*time.Second)

	audio, err := client.Synthesize(context.Background(), testSpeechRequest())
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF....WAVE"), audio)
}

func TestHTTPClientSynthesizeStructuredError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.WriteHeader(http.StatusUnauthorized)
			_, _ = responseWriter.Write([]byte(`{"detail": "invalid api key"}`))
		}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "bad", 5*time.Second)

	_, err := client.Synthesize(context.Background(), testSpeechRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSynthesis)
	assert.ErrorContains(t, err, "invalid api key")
}

func TestHTTPClientSynthesizeRawBodyError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(responseWriter http.ResponseWriter, _ *http.Request) {
			responseWriter.WriteHeader(http.StatusBadGateway)
			_, _ = responseWriter.Write([]byte("upstream exploded"))
		}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", 5*time.Second)

	_, err := client.Synthesize(context.Background(), testSpeechRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSynthesis)
	assert.ErrorContains(t, err, "upstream exploded")
}

func TestHTTPClientSynthesizeEmptyAudio(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(
		func(_ http.ResponseWriter, _ *http.Request) {
			// 200 with empty body
		}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret", 5*time.Second)

	_, err := client.Synthesize(context.Background(), testSpeechRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReceivedEmptyAudio)
}

func TestHTTPClientSynthesizeUnreachableService(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient("http://127.0.0.1:1", "secret", time.Second)

	_, err := client.Synthesize(context.Background(), testSpeechRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSynthesis)
}
