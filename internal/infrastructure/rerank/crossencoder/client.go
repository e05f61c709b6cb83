// Package crossencoder calls an external cross-encoder scoring service
// over HTTP to reorder fused retrieval candidates.
package crossencoder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/resilience"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

func NewClient(cfg Config, executor *resilience.Executor) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("crossencoder: base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}, nil
}

type scoreRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

type scoredText struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Rerank scores every candidate against the query and returns the topN
// best, ordered by score descending with the original candidate order
// breaking ties. Indices outside the candidate range are dropped.
func (c *Client) Rerank(ctx context.Context, query string, candidates []domain.ScoredChunk, topN int) ([]domain.ScoredChunk, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	texts := make([]string, len(candidates))
	for i, sc := range candidates {
		texts[i] = sc.Chunk.Content
	}

	var scores []scoredText
	err := c.executor.Do(ctx, "rerank", classifyHTTPError, func(ctx context.Context) error {
		return c.postJSON(ctx, "/rerank", scoreRequest{Query: query, Texts: texts}, &scores)
	})
	if err != nil {
		return nil, fmt.Errorf("crossencoder rerank: %w", err)
	}

	valid := scores[:0]
	for _, s := range scores {
		if s.Index >= 0 && s.Index < len(candidates) {
			valid = append(valid, s)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		if valid[i].Score != valid[j].Score {
			return valid[i].Score > valid[j].Score
		}
		return valid[i].Index < valid[j].Index
	})
	if len(valid) > topN {
		valid = valid[:topN]
	}

	out := make([]domain.ScoredChunk, 0, len(valid))
	for _, s := range valid {
		out = append(out, domain.ScoredChunk{Chunk: candidates[s.Index].Chunk, Score: s.Score})
	}
	return out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return newStatusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type statusError struct {
	code int
	msg  string
}

func newStatusError(resp *http.Response) *statusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &statusError{code: resp.StatusCode, msg: strings.TrimSpace(string(body))}
}

func (e *statusError) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("rerank service status %d", e.code)
	}
	return fmt.Sprintf("rerank service status %d: %s", e.code, e.msg)
}

func classifyHTTPError(err error) resilience.Verdict {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{}
	}

	var st *statusError
	if errors.As(err, &st) {
		if st.code == http.StatusTooManyRequests || st.code >= 500 {
			return resilience.Verdict{Retryable: true, CountsAsTrip: true}
		}
		return resilience.Verdict{}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{Retryable: true, CountsAsTrip: true}
	}

	return resilience.Verdict{Retryable: true, CountsAsTrip: true}
}
