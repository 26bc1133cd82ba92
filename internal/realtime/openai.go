package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIClient implements Opener against the OpenAI Realtime API. It
// creates ephemeral sessions; the audio/text stream itself is carried
// directly between the frontend and the API.
type OpenAIClient struct {
	apiKey             string
	model              string
	transcriptionModel string
	baseURL            string
	httpClient         *http.Client
}

// OpenAIConfig holds realtime client configuration.
type OpenAIConfig struct {
	APIKey             string
	Model              string
	TranscriptionModel string
	BaseURL            string
	Timeout            time.Duration
}

// NewOpenAIClient creates a realtime session client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OpenAIClient{
		apiKey:             cfg.APIKey,
		model:              cfg.Model,
		transcriptionModel: cfg.TranscriptionModel,
		baseURL:            cfg.BaseURL,
		httpClient:         &http.Client{Timeout: cfg.Timeout},
	}
}

type sessionRequest struct {
	Model                   string            `json:"model"`
	Voice                   string            `json:"voice"`
	Instructions            string            `json:"instructions"`
	Modalities              []string          `json:"modalities"`
	InputAudioFormat        string            `json:"input_audio_format"`
	OutputAudioFormat       string            `json:"output_audio_format"`
	InputAudioTranscription map[string]string `json:"input_audio_transcription,omitempty"`
	TurnDetection           turnDetection     `json:"turn_detection"`
	Temperature             float64           `json:"temperature"`
	MaxResponseOutputTokens int               `json:"max_response_output_tokens"`
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMS   int     `json:"prefix_padding_ms"`
	SilenceDurationMS int     `json:"silence_duration_ms"`
}

type sessionResponse struct {
	ID           string `json:"id"`
	ExpiresAt    int64  `json:"expires_at"`
	ClientSecret struct {
		Value     string `json:"value"`
		ExpiresAt int64  `json:"expires_at"`
	} `json:"client_secret"`
}

// Open creates an ephemeral realtime session carrying the composed
// instructions and returns its id and client secret.
func (c *OpenAIClient) Open(ctx context.Context, req OpenRequest) (*OpenResponse, error) {
	modalities := req.Modalities
	if len(modalities) == 0 {
		modalities = []string{"text", "audio"}
	}

	body := sessionRequest{
		Model:             c.model,
		Voice:             req.Voice,
		Instructions:      req.Instructions,
		Modalities:        modalities,
		InputAudioFormat:  "pcm16",
		OutputAudioFormat: "pcm16",
		TurnDetection: turnDetection{
			Type:              "server_vad",
			Threshold:         0.5,
			PrefixPaddingMS:   300,
			SilenceDurationMS: 4000,
		},
		Temperature:             0.8,
		MaxResponseOutputTokens: 4096,
	}
	if c.transcriptionModel != "" {
		body.InputAudioTranscription = map[string]string{"model": c.transcriptionModel}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/realtime/sessions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to open realtime session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("realtime API returned status %d: %s", resp.StatusCode, payload)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	if session.ClientSecret.Value == "" {
		return nil, fmt.Errorf("realtime API returned no client secret")
	}

	out := &OpenResponse{
		SessionID:    session.ID,
		ClientSecret: session.ClientSecret.Value,
		Model:        c.model,
	}
	if session.ClientSecret.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(session.ClientSecret.ExpiresAt, 0).UTC()
	}

	slog.Info("realtime session opened", "external_id", session.ID, "model", c.model)
	return out, nil
}

// Close is a no-op for ephemeral sessions: they expire server-side when
// the client secret lapses, and the API exposes no delete endpoint.
func (c *OpenAIClient) Close(ctx context.Context, sessionID string) error {
	slog.Debug("realtime session left to expire", "external_id", sessionID)
	return nil
}
