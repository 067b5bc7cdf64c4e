package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/poiesic/htsfinder/ai"
	"github.com/poiesic/htsfinder/core"
)

const (
	keywordsPath = "/api/get-keywords"
	rankPath     = "/api/rank-results"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Path, e.Status, e.Body)
}

// Client communicates with the keyword/rank HTTP API.
// It implements both ai.KeywordExtractor and ai.Reranker.
type Client struct {
	baseURL    string
	credential string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the service at config.Endpoint.
// Deadlines come from the caller's context; the http.Client timeout is a
// backstop of twice config.Timeout.
func NewClient(config *ai.Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    config.Endpoint,
		credential: config.Credential,
		httpClient: &http.Client{
			Timeout: 2 * config.Timeout,
		},
		logger: slog.Default().With("component", "backend-client"),
	}, nil
}

type keywordsRequest struct {
	Query string `json:"query"`
}

type rankRequest struct {
	ObjectKeywords  []string         `json:"objectKeywords"`
	ContextKeywords []string         `json:"contextKeywords"`
	Candidates      []core.Candidate `json:"candidates"`
}

// ExtractKeywords calls the keyword endpoint.
func (c *Client) ExtractKeywords(ctx context.Context, query string) (core.KeywordSet, error) {
	body, err := c.post(ctx, keywordsPath, keywordsRequest{Query: query})
	if err != nil {
		return core.KeywordSet{}, err
	}

	keywords, err := ai.ParseKeywords(string(body))
	if err != nil {
		c.logger.Warn("error parsing keyword response", "err", err)
		return core.KeywordSet{}, err
	}
	return keywords, nil
}

// Rerank calls the rank endpoint and returns at most limit results.
// No candidates means no call.
func (c *Client) Rerank(ctx context.Context, keywords core.KeywordSet, candidates []core.Candidate, limit int) ([]core.RankedResult, error) {
	if len(candidates) == 0 {
		return []core.RankedResult{}, nil
	}

	req := rankRequest{
		ObjectKeywords:  keywords.ObjectKeywords,
		ContextKeywords: keywords.ContextKeywords,
		Candidates:      candidates,
	}
	if req.ObjectKeywords == nil {
		req.ObjectKeywords = []string{}
	}
	if req.ContextKeywords == nil {
		req.ContextKeywords = []string{}
	}

	body, err := c.post(ctx, rankPath, req)
	if err != nil {
		return nil, err
	}

	results, err := ai.ParseRanking(string(body))
	if err != nil {
		c.logger.Warn("error parsing rank response", "err", err)
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// post sends payload as JSON and returns the response body of a 2xx reply.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.credential != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.credential)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Path: path, Status: resp.StatusCode, Body: string(respBody)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	c.logger.Debug("service call", "path", path, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}
