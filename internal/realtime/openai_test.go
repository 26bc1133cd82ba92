package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIClientOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realtime/sessions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-realtime" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if req.Voice != "coral" {
			t.Errorf("unexpected voice %q", req.Voice)
		}
		if req.Instructions == "" {
			t.Error("instructions missing")
		}
		if req.InputAudioFormat != "pcm16" || req.OutputAudioFormat != "pcm16" {
			t.Error("expected pcm16 audio formats")
		}
		if req.TurnDetection.Type != "server_vad" {
			t.Errorf("unexpected turn detection %q", req.TurnDetection.Type)
		}
		if req.TurnDetection.SilenceDurationMS != 4000 {
			t.Errorf("unexpected silence duration %d", req.TurnDetection.SilenceDurationMS)
		}
		if req.InputAudioTranscription["model"] != "test-transcribe" {
			t.Errorf("unexpected transcription model %v", req.InputAudioTranscription)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         "rt_123",
			"expires_at": 1767000000,
			"client_secret": map[string]interface{}{
				"value":      "ek_secret",
				"expires_at": 1767000060,
			},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:             "test-key",
		Model:              "test-realtime",
		TranscriptionModel: "test-transcribe",
		BaseURL:            server.URL,
	})

	resp, err := client.Open(context.Background(), OpenRequest{
		Instructions: "interview instructions",
		Voice:        "coral",
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if resp.SessionID != "rt_123" {
		t.Errorf("expected session id rt_123, got %q", resp.SessionID)
	}
	if resp.ClientSecret != "ek_secret" {
		t.Errorf("expected client secret ek_secret, got %q", resp.ClientSecret)
	}
	if resp.ExpiresAt.IsZero() {
		t.Error("expected expiry from client secret")
	}
}

func TestOpenAIClientOpenUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "bad", Model: "m", BaseURL: server.URL})
	if _, err := client.Open(context.Background(), OpenRequest{Instructions: "x", Voice: "coral"}); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestOpenAIClientOpenMissingSecret(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "rt_123"}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{APIKey: "k", Model: "m", BaseURL: server.URL})
	if _, err := client.Open(context.Background(), OpenRequest{Instructions: "x", Voice: "coral"}); err == nil {
		t.Fatal("expected error for missing client secret")
	}
}
