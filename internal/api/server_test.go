package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hireloop/interview-engine/internal/config"
	"github.com/hireloop/interview-engine/internal/interview"
	"github.com/hireloop/interview-engine/internal/models"
	"github.com/hireloop/interview-engine/internal/realtime"
	"github.com/hireloop/interview-engine/internal/rounds"
)

type stubOpener struct {
	openErr error
}

func (s *stubOpener) Open(ctx context.Context, req realtime.OpenRequest) (*realtime.OpenResponse, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &realtime.OpenResponse{
		SessionID:    "rt_stub",
		ClientSecret: "ek_stub",
		Model:        "stub-realtime",
	}, nil
}

func (s *stubOpener) Close(ctx context.Context, externalID string) error { return nil }

type stubScorer struct{}

func (s *stubScorer) Score(ctx context.Context, req *models.EvaluationRequest) (*models.EvaluationResult, error) {
	return &models.EvaluationResult{OverallScore: 68, FeedbackLabel: "Good"}, nil
}

func newTestServer(t *testing.T, opener *stubOpener) *Server {
	t.Helper()
	registry, err := rounds.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	manager := interview.NewManager(registry, interview.NewStore(), opener, &stubScorer{}, nil, 5*time.Minute)
	return NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8080}, manager)
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (json.RawMessage, *apiError) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *apiError       `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	return resp.Data, resp.Error
}

func createInterview(t *testing.T, srv *Server) models.CreateInterviewResponse {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/interviews", models.CreateInterviewRequest{
		Role:            "Backend Engineer",
		Company:         "Acme Corp",
		DurationMinutes: 30,
		Round:           "technical",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)
	var created models.CreateInterviewResponse
	if err := json.Unmarshal(data, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCreateInterview(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})
	created := createInterview(t, srv)

	if created.SessionID == "" {
		t.Error("expected a session id")
	}
	if created.State != models.SessionActive {
		t.Errorf("expected active, got %q", created.State)
	}
	if created.EphemeralToken != "ek_stub" {
		t.Errorf("expected ephemeral token ek_stub, got %q", created.EphemeralToken)
	}
	if created.Interviewer == nil || created.Voice == "" {
		t.Error("expected interviewer persona and voice")
	}
}

func TestCreateInterviewValidation(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})

	// Unknown round.
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/interviews", models.CreateInterviewRequest{
		Role:            "Backend Engineer",
		DurationMinutes: 30,
		Round:           "behavioral",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown round: expected 400, got %d", rec.Code)
	}
	if _, apiErr := decodeEnvelope(t, rec); apiErr == nil || apiErr.Code != "unknown_round" {
		t.Errorf("expected unknown_round, got %+v", apiErr)
	}

	// Missing role.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/interviews", models.CreateInterviewRequest{
		DurationMinutes: 30,
		Round:           "technical",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing role: expected 400, got %d", rec.Code)
	}
	if _, apiErr := decodeEnvelope(t, rec); apiErr == nil || apiErr.Code != "validation_error" {
		t.Errorf("expected validation_error, got %+v", apiErr)
	}
}

func TestCreateInterviewRealtimeFailure(t *testing.T) {
	srv := newTestServer(t, &stubOpener{openErr: errors.New("connection refused")})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/interviews", models.CreateInterviewRequest{
		Role:            "Backend Engineer",
		DurationMinutes: 30,
		Round:           "technical",
	})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if _, apiErr := decodeEnvelope(t, rec); apiErr == nil || apiErr.Code != "realtime_unavailable" {
		t.Errorf("expected realtime_unavailable, got %+v", apiErr)
	}
}

func TestGetInterviewNotFound(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/interviews/intv_missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if _, apiErr := decodeEnvelope(t, rec); apiErr == nil || apiErr.Code != "not_found" {
		t.Errorf("expected not_found, got %+v", apiErr)
	}
}

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})
	created := createInterview(t, srv)
	id := created.SessionID

	// Append transcript turns.
	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/interviews/"+id+"/transcript", models.AppendTranscriptRequest{
		Turns: []models.TurnRecord{
			{Speaker: "interviewer", Text: "What is a goroutine?"},
			{Speaker: "candidate", Text: "A lightweight thread."},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("transcript: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)
	var snap models.SessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.TurnCount != 2 {
		t.Errorf("expected 2 turns, got %d", snap.TurnCount)
	}

	// Evaluating before ending is a conflict.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/evaluate", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("premature evaluate: expected 409, got %d", rec.Code)
	}
	if _, apiErr := decodeEnvelope(t, rec); apiErr == nil || apiErr.Code != "invalid_transition" {
		t.Errorf("expected invalid_transition, got %+v", apiErr)
	}

	// End the interview.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/end", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("end: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Ending twice is a conflict.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/end", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("double end: expected 409, got %d", rec.Code)
	}

	// Evaluate and verify the attached result.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/interviews/"+id+"/evaluate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ = decodeEnvelope(t, rec)
	var result models.EvaluationResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if result.OverallScore != 68 {
		t.Errorf("expected score 68, got %v", result.OverallScore)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/interviews/"+id, nil)
	data, _ = decodeEnvelope(t, rec)
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.State != models.SessionEvaluated {
		t.Errorf("expected evaluated, got %q", snap.State)
	}
	if len(snap.Transcript) != 2 {
		t.Fatalf("expected 2 transcript turns, got %d", len(snap.Transcript))
	}
	if snap.Transcript[0].Speaker != models.SpeakerInterviewer || snap.Transcript[0].Text != "What is a goroutine?" {
		t.Errorf("unexpected first turn: %+v", snap.Transcript[0])
	}
	if snap.Transcript[1].Speaker != models.SpeakerCandidate || snap.Transcript[1].Text != "A lightweight thread." {
		t.Errorf("unexpected second turn: %+v", snap.Transcript[1])
	}

	// Delete the session.
	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/interviews/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/interviews/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("after delete: expected 404, got %d", rec.Code)
	}
}

func TestAppendTranscriptValidation(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})
	created := createInterview(t, srv)

	rec := doJSON(t, srv, http.MethodPatch, "/api/v1/interviews/"+created.SessionID+"/transcript",
		models.AppendTranscriptRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty turns: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPatch, "/api/v1/interviews/"+created.SessionID+"/transcript",
		models.AppendTranscriptRequest{Turns: []models.TurnRecord{{Speaker: "moderator", Text: "hello"}}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad speaker: expected 400, got %d", rec.Code)
	}
}

func TestListInterviewers(t *testing.T) {
	srv := newTestServer(t, &stubOpener{})
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/interviewers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data, _ := decodeEnvelope(t, rec)
	var payload struct {
		Interviewers []models.Interviewer `json:"interviewers"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode interviewers: %v", err)
	}
	if len(payload.Interviewers) != 4 {
		t.Errorf("expected 4 interviewers, got %d", len(payload.Interviewers))
	}
	for _, iv := range payload.Interviewers {
		if iv.ID == "" || iv.Name == "" || iv.VoiceID == "" {
			t.Errorf("incomplete interviewer persona: %+v", iv)
		}
	}
}
