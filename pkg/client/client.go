package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a Go SDK for the interview-engine API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new interview-engine client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreateInterviewRequest represents an interview creation request
type CreateInterviewRequest struct {
	Role               string   `json:"role"`
	Company            string   `json:"company,omitempty"`
	JobDescription     string   `json:"job_description,omitempty"`
	ResumeExcerpt      string   `json:"resume_excerpt,omitempty"`
	DurationMinutes    int      `json:"duration_minutes"`
	Round              string   `json:"round"`
	MandatoryQuestions []string `json:"mandatory_questions,omitempty"`
	InterviewerID      string   `json:"interviewer_id,omitempty"`
	CandidateID        string   `json:"candidate_id,omitempty"`
	PassingScore       *int     `json:"passing_score,omitempty"`
}

// Interviewer describes an interviewer persona
type Interviewer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VoiceID     string `json:"voice_id"`
	Gender      string `json:"gender"`
	Accent      string `json:"accent"`
	Description string `json:"description,omitempty"`
}

// CreateInterviewResponse is returned when an interview is created
type CreateInterviewResponse struct {
	SessionID         string       `json:"session_id"`
	InstructionsReady bool         `json:"instructions_ready"`
	State             string       `json:"state"`
	EphemeralToken    string       `json:"ephemeral_token,omitempty"`
	Voice             string       `json:"voice,omitempty"`
	Model             string       `json:"model,omitempty"`
	ExpiresAt         time.Time    `json:"expires_at"`
	Interviewer       *Interviewer `json:"interviewer,omitempty"`
}

// Interview is the caller-facing session snapshot
type Interview struct {
	SessionID     string      `json:"session_id"`
	State         string      `json:"state"`
	Round         string      `json:"round"`
	Role          string      `json:"role"`
	Company       string      `json:"company,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	ActivatedAt   *time.Time  `json:"activated_at,omitempty"`
	EndedAt       *time.Time  `json:"ended_at,omitempty"`
	ExpiresAt     time.Time   `json:"expires_at"`
	FailureReason string      `json:"failure_reason,omitempty"`
	TurnCount     int         `json:"turn_count"`
	Transcript    []Turn      `json:"transcript,omitempty"`
	Checklist     []string    `json:"checklist"`
	Covered       []string    `json:"covered,omitempty"`
	Evaluation    *Evaluation `json:"evaluation,omitempty"`
}

// Evaluation is an attached evaluation result
type Evaluation struct {
	OverallScore     float64            `json:"overall_score"`
	FeedbackLabel    string             `json:"feedback_label"`
	Breakdown        map[string]float64 `json:"performance_breakdown"`
	Strengths        []string           `json:"strengths,omitempty"`
	Weaknesses       []string           `json:"weaknesses,omitempty"`
	Recommendations  []string           `json:"recommendations,omitempty"`
	InsufficientData bool               `json:"insufficient_data"`
	Passed           *bool              `json:"passed,omitempty"`
	EvaluatedAt      time.Time          `json:"evaluated_at"`
}

// Turn is a single transcript entry
type Turn struct {
	Speaker   string     `json:"speaker"`
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// AppendTranscriptRequest carries a batch of transcript turns
type AppendTranscriptRequest struct {
	Turns []Turn `json:"turns"`
}

// CreateInterview creates a new interview session
func (c *Client) CreateInterview(ctx context.Context, req CreateInterviewRequest) (*CreateInterviewResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, "POST", "/api/v1/interviews", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool                     `json:"success"`
		Data    *CreateInterviewResponse `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// GetInterview retrieves an interview session by ID
func (c *Client) GetInterview(ctx context.Context, id string) (*Interview, error) {
	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/interviews/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool       `json:"success"`
		Data    *Interview `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// EndInterview completes an active interview session
func (c *Client) EndInterview(ctx context.Context, id string) (*Interview, error) {
	resp, err := c.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/interviews/%s/end", id), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool       `json:"success"`
		Data    *Interview `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// EvaluateInterview scores a finished interview and returns the result
func (c *Client) EvaluateInterview(ctx context.Context, id string) (*Evaluation, error) {
	resp, err := c.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/interviews/%s/evaluate", id), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool        `json:"success"`
		Data    *Evaluation `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// AppendTranscript submits a batch of transcript turns
func (c *Client) AppendTranscript(ctx context.Context, id string, turns []Turn) (*Interview, error) {
	body, err := json.Marshal(AppendTranscriptRequest{Turns: turns})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, "PATCH", fmt.Sprintf("/api/v1/interviews/%s/transcript", id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool       `json:"success"`
		Data    *Interview `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data, nil
}

// DeleteInterview removes an interview session
func (c *Client) DeleteInterview(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/interviews/%s", id), nil)
	if err != nil {
		return err
	}

	var result struct {
		Success bool `json:"success"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return nil
}

// ListInterviewers retrieves the available interviewer personas
func (c *Client) ListInterviewers(ctx context.Context) ([]*Interviewer, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/interviewers", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Success bool `json:"success"`
		Data    struct {
			Interviewers []*Interviewer `json:"interviewers"`
		} `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return nil, fmt.Errorf("API error: %s - %s", result.Error.Code, result.Error.Message)
	}

	return result.Data.Interviewers, nil
}

// Health checks the service health
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		return err
	}

	var result struct {
		Success bool `json:"success"`
	}

	if err := json.Unmarshal(resp, &result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("service unhealthy")
	}

	return nil
}

// doRequest performs an HTTP request and returns the raw response body
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return data, nil
}
