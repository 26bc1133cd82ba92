package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hireloop/interview-engine/internal/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

const evaluatorPrompt = `You are an expert interview evaluator assessing a candidate's overall performance in a %s round interview for a %s position.

Interview transcript:
%s

Context categories touched during the interview: %s

Evaluate the candidate across four dimensions, each scored 0-10:
1. Communication: clarity, structure, articulation
2. Technical Knowledge: correctness, depth, technical soundness
3. Confidence: assertiveness, decisiveness
4. Structure: organization, logical flow, completeness

Also provide:
- An overall score from 0 to 100
- A feedback label: "Excellent" (80-100), "Good" (60-79), "Fair" (40-59), "Poor" (0-39)
- 3-5 specific strengths demonstrated across the interview
- 3-5 specific weaknesses observed
- 3-5 actionable recommendations for improvement

Return ONLY a valid JSON object with this exact structure:
{
  "overall_score": float (0-100),
  "feedback_label": "Excellent|Good|Fair|Poor",
  "strengths": ["..."],
  "weaknesses": ["..."],
  "recommendations": ["..."],
  "performance_breakdown": {
    "communication": float (0-10),
    "technical_knowledge": float (0-10),
    "confidence": float (0-10),
    "structure": float (0-10)
  }
}

No markdown, no explanations.`

// OpenAIScorer implements Scorer against an OpenAI-compatible chat
// completions endpoint.
type OpenAIScorer struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// OpenAIScorerConfig holds evaluator configuration.
type OpenAIScorerConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// NewOpenAIScorer creates an LLM-backed evaluator.
func NewOpenAIScorer(cfg OpenAIScorerConfig) *OpenAIScorer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIScorer{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// scorerOutput mirrors the JSON the evaluator model is asked to emit.
type scorerOutput struct {
	OverallScore    float64                     `json:"overall_score"`
	FeedbackLabel   string                      `json:"feedback_label"`
	Strengths       []string                    `json:"strengths"`
	Weaknesses      []string                    `json:"weaknesses"`
	Recommendations []string                    `json:"recommendations"`
	Breakdown       models.PerformanceBreakdown `json:"performance_breakdown"`
}

// Score sends the transcript to the evaluator model and parses the
// structured result. Collaborator failures surface as
// ErrEvaluationUnavailable; the caller decides whether to retry.
func (s *OpenAIScorer) Score(ctx context.Context, req *models.EvaluationRequest) (*models.EvaluationResult, error) {
	prompt := fmt.Sprintf(evaluatorPrompt,
		req.Context.RoundKind,
		req.Context.Role,
		renderTranscript(req.Transcript),
		renderCovered(req.Covered),
	)

	body := chatRequest{
		Model:       s.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal evaluation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: status %d: %s", ErrEvaluationUnavailable, resp.StatusCode, payload)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationUnavailable, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrEvaluationUnavailable)
	}

	var out scorerOutput
	cleaned := cleanModelJSON(chat.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: malformed evaluator JSON: %v", ErrEvaluationUnavailable, err)
	}

	return &models.EvaluationResult{
		OverallScore:    out.OverallScore,
		FeedbackLabel:   out.FeedbackLabel,
		Breakdown:       out.Breakdown,
		Strengths:       out.Strengths,
		Weaknesses:      out.Weaknesses,
		Recommendations: out.Recommendations,
	}, nil
}

func renderTranscript(transcript []models.Turn) string {
	var b strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(turn.Speaker)), turn.Text)
	}
	return b.String()
}

func renderCovered(covered []models.CoverageCategory) string {
	if len(covered) == 0 {
		return "none"
	}
	parts := make([]string, len(covered))
	for i, cat := range covered {
		parts[i] = string(cat)
	}
	return strings.Join(parts, ", ")
}

var jsonObjectRE = regexp.MustCompile(`(?s)\{.*\}`)

// cleanModelJSON strips markdown fences and extracts the outermost JSON
// object from a model response.
func cleanModelJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.ReplaceAll(text, "```", "")
		text = strings.TrimSpace(text)
	}
	if match := jsonObjectRE.FindString(text); match != "" {
		return match
	}
	return text
}
