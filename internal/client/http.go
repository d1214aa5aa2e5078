package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/ideaforge/internal/model"
)

// HTTPClient implements ForgeClient using the forge HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements ForgeClient.
var _ ForgeClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Clarification ---

func (c *HTTPClient) StartClarification(ctx context.Context, ideaID, ideaText string) (*model.ClarificationSession, error) {
	body := map[string]string{"idea_text": ideaText}
	var session model.ClarificationSession
	if err := c.doJSON(ctx, http.MethodPost, "/v1/ideas/"+url.PathEscape(ideaID)+"/clarify", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) SubmitAnswer(ctx context.Context, ideaID, questionID, answer string) (*model.ClarificationSession, error) {
	body := map[string]string{"question_id": questionID, "answer": answer}
	var session model.ClarificationSession
	if err := c.doJSON(ctx, http.MethodPost, "/v1/ideas/"+url.PathEscape(ideaID)+"/clarify/answers", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, ideaID string) (*model.ClarificationSession, error) {
	var session model.ClarificationSession
	if err := c.doJSON(ctx, http.MethodGet, "/v1/ideas/"+url.PathEscape(ideaID)+"/clarify", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// --- Breakdown ---

func (c *HTTPClient) StartBreakdown(ctx context.Context, ideaID string, req *StartBreakdownRequest) (*model.BreakdownSession, error) {
	if req == nil {
		req = &StartBreakdownRequest{}
	}
	var session model.BreakdownSession
	if err := c.doJSON(ctx, http.MethodPost, "/v1/ideas/"+url.PathEscape(ideaID)+"/breakdown", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) GetBreakdown(ctx context.Context, ideaID string) (*model.BreakdownSession, error) {
	var session model.BreakdownSession
	if err := c.doJSON(ctx, http.MethodGet, "/v1/ideas/"+url.PathEscape(ideaID)+"/breakdown", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) DeleteBreakdown(ctx context.Context, ideaID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/ideas/"+url.PathEscape(ideaID)+"/breakdown", nil, nil)
}

func (c *HTTPClient) ListBreakdowns(ctx context.Context, limit, offset int) (*ListBreakdownsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	path := "/v1/breakdowns"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListBreakdownsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Events ---

func (c *HTTPClient) GetEvents(ctx context.Context, ideaID string) ([]*model.Event, error) {
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/ideas/"+url.PathEscape(ideaID)+"/events", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
