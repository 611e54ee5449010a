package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/adforge/ad-voice-service/internal/core"
)

// API paths and headers for the ElevenLabs-style synthesis service.
const (
	apiTextToSpeechFormat = "/v1/text-to-speech/%s"

	headerContentType = "Content-Type"
	headerAPIKey      = "xi-api-key"
	contentTypeJSON   = "application/json"
)

// Voice-shaping defaults sent with every request.
const (
	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75
)

// Error messages.
const (
	errFmtServiceError       = "speech service error (%s): %s"
	errFmtServiceNonOKStatus = "speech service returned non-OK status: %s, body: %s"
)

// ErrReceivedEmptyAudio indicates a success response with no audio payload.
var ErrReceivedEmptyAudio = errors.New("received empty audio data")

// HTTPClient is the live synthesis strategy: it submits scripts to the
// speech backend over HTTP. Any failure is wrapped into core.ErrSynthesis
// and surfaced to the caller; unlike copy generation, no retry policy
// applies here.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewHTTPClient creates and configures an HTTP client for the speech
// service. The timeout applies to all requests made by this client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Synthesize submits the script and voice parameters to the synthesis
// backend and returns the raw audio bytes.
func (c *HTTPClient) Synthesize(ctx context.Context, req core.SpeechRequest) ([]byte, error) {
	payload := synthesisRequest{
		Text:    req.Text,
		ModelID: req.Model,
		VoiceSettings: voiceSettings{
			Stability:       defaultStability,
			SimilarityBoost: defaultSimilarityBoost,
		},
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + fmt.Sprintf(apiTextToSpeechFormat, req.VoiceID)

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set(headerContentType, contentTypeJSON)
	httpReq.Header.Set(headerAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request to speech service at %s: %v",
			core.ErrSynthesis, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read audio data: %v", core.ErrSynthesis, err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrSynthesis, ErrReceivedEmptyAudio)
	}

	return audioData, nil
}

// parseErrorResponse attempts to decode a structured JSON error from the
// service, falling back to the raw response body.
func (c *HTTPClient) parseErrorResponse(resp *http.Response) error {
	var errResp errorResponse

	err := json.NewDecoder(resp.Body).Decode(&errResp)
	if err == nil && errResp.Detail != "" {
		return fmt.Errorf("%w: "+errFmtServiceError, core.ErrSynthesis, resp.Status, errResp.Detail)
	}

	body, _ := io.ReadAll(resp.Body)

	return fmt.Errorf("%w: "+errFmtServiceNonOKStatus, core.ErrSynthesis, resp.Status, string(body))
}
