package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

const defaultAnthropicURL = "https://api.anthropic.com/v1/messages"

// AnthropicConfig holds the settings for the Anthropic-backed generator.
type AnthropicConfig struct {
	APIKey         string
	Model          string
	MaxTokens      int
	TimeoutSeconds int
	RetryCount     int
	RetryDelay     time.Duration
	BaseURL        string // overridable for tests; defaults to the public API
}

// AnthropicGenerator implements Generator against the Anthropic Messages API.
// Each call sends a strict-JSON prompt and parses the single text block of the
// response. Transient failures are retried RetryCount times with RetryDelay
// between attempts; retry lives here, inside the collaborator, never in the
// pipeline.
type AnthropicGenerator struct {
	cfg    AnthropicConfig
	client *http.Client
}

// NewAnthropicGenerator returns a generator using the given config.
func NewAnthropicGenerator(cfg AnthropicConfig) *AnthropicGenerator {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 60
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultAnthropicURL
	}
	return &AnthropicGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

// Compile-time check that AnthropicGenerator implements Generator.
var _ Generator = (*AnthropicGenerator)(nil)

func (g *AnthropicGenerator) GenerateQuestions(ctx context.Context, ideaText string) ([]string, error) {
	prompt := fmt.Sprintf(`You are a senior project manager refining a raw project idea. Generate clarification questions whose answers would most reduce ambiguity before planning.

Idea:
%s

Respond with a JSON object that follows this exact structure:
{
  "questions": ["question text", "..."]
}

Guidelines:
- Ask 3-7 questions covering target users, core functionality, scope boundaries, integrations, and success criteria
- Each question must be answerable in one or two sentences
- Do not ask about budget or staffing

Respond ONLY with valid JSON. Do not include any markdown formatting or explanations.`, ideaText)

	var out struct {
		Questions []string `json:"questions"`
	}
	if err := g.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("model returned no questions")
	}
	return out.Questions, nil
}

func (g *AnthropicGenerator) AnalyzeIdea(ctx context.Context, ideaText string, answers map[string]string) (*RawAnalysis, error) {
	var ans strings.Builder
	for q, a := range answers {
		fmt.Fprintf(&ans, "- %s: %s\n", q, a)
	}

	prompt := fmt.Sprintf(`You are a senior project manager and technical lead. Analyze the following project idea, refined by clarification answers, and produce a structured analysis.

Idea:
%s

Clarification answers:
%s

Respond with a JSON object that follows this exact structure:
{
  "objectives": [{"title": "string", "description": "string"}],
  "deliverables": [{"title": "string", "description": "string", "priority": 1, "estimated_hours": 40, "confidence": 0.8}],
  "complexity_score": 1-10,
  "complexity_factors": ["string"],
  "scope_size": "small|medium|large",
  "estimated_weeks": 4,
  "team_size": 1,
  "risk_factors": ["string"],
  "success_criteria": ["string"]
}

Guidelines:
- Create 2-5 deliverables representing major output groupings, priority 1 = highest
- estimated_hours must be a realistic positive number per deliverable
- confidence is your certainty in the estimate, between 0 and 1
- complexity_score reflects overall technical difficulty

Respond ONLY with valid JSON. Do not include any markdown formatting or explanations.`, ideaText, ans.String())

	var out RawAnalysis
	if err := g.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *AnthropicGenerator) GenerateTasks(ctx context.Context, deliverable model.Deliverable) ([]RawTask, error) {
	prompt := fmt.Sprintf(`You are a senior project manager decomposing a deliverable into tasks for a development team.

Deliverable: %s
Description: %s
Estimated hours: %g

Respond with a JSON object that follows this exact structure:
{
  "tasks": [
    {
      "title": "string",
      "description": "string",
      "estimated_hours": 8,
      "complexity": 1-10,
      "required_skills": ["string"],
      "depends_on": [0]
    }
  ]
}

Guidelines:
- Create 2-6 tasks whose estimated_hours sum approximately to the deliverable estimate
- depends_on lists zero-based indexes of EARLIER tasks in this same list; omit or use [] when independent
- Never reference a later task or the task itself

Respond ONLY with valid JSON. Do not include any markdown formatting or explanations.`,
		deliverable.Title, deliverable.Description, deliverable.EstimatedHours)

	var out struct {
		Tasks []RawTask `json:"tasks"`
	}
	if err := g.completeJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Tasks) == 0 {
		return nil, fmt.Errorf("model returned no tasks for deliverable %q", deliverable.Title)
	}
	return out.Tasks, nil
}

// completeJSON sends one prompt, retrying on failure, and unmarshals the
// model's JSON reply into result.
func (g *AnthropicGenerator) completeJSON(ctx context.Context, prompt string, result any) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.RetryCount; attempt++ {
		text, err := g.complete(ctx, prompt)
		if err == nil {
			if uerr := json.Unmarshal([]byte(text), result); uerr == nil {
				return nil
			} else {
				err = fmt.Errorf("parsing model reply as JSON: %w", uerr)
			}
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt < g.cfg.RetryCount {
			slog.Warn("generation attempt failed, retrying",
				"attempt", attempt,
				"retries", g.cfg.RetryCount,
				"error", err,
			)
			select {
			case <-time.After(g.cfg.RetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", g.cfg.RetryCount, lastErr)
}

// complete performs a single Messages API call and returns the reply text with
// any markdown code fences stripped.
func (g *AnthropicGenerator) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":      g.cfg.Model,
		"max_tokens": g.cfg.MaxTokens,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var apiResponse struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("decoding API response: %w", err)
	}
	if len(apiResponse.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	text := strings.TrimSpace(apiResponse.Content[0].Text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text), nil
}
