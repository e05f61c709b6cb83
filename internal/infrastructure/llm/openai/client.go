// Package openai adapts the OpenAI chat and embedding endpoints to the
// core ports.
package openai

import (
	"context"
	"fmt"
	"log/slog"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"golang.org/x/time/rate"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/resilience"
)

type Config struct {
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	EmbeddingDims  int
	RequestsPerSec float64
	Burst          int
}

func (c Config) normalize() Config {
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o-mini"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-3-small"
	}
	if c.RequestsPerSec <= 0 {
		c.RequestsPerSec = 5
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	return c
}

// Client talks to the OpenAI API at temperature zero. It implements the
// chat and embedding ports.
type Client struct {
	api      oai.Client
	cfg      Config
	limiter  *rate.Limiter
	executor *resilience.Executor
	logger   *slog.Logger
}

func NewClient(cfg Config, executor *resilience.Executor, logger *slog.Logger) (*Client, error) {
	cfg = cfg.normalize()
	if cfg.APIKey == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "openai", fmt.Errorf("api key is required"))
	}
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:      oai.NewClient(opts...),
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		executor: executor,
		logger:   logger,
	}, nil
}

// Complete runs a single system+user exchange and returns the raw
// assistant text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, "chat_complete", system, user)
}

// CompleteJSON is Complete for callers that expect machine-readable
// output. The decoding and validation stay with the caller because the
// expected shape differs per prompt.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, "chat_complete_json", system, user)
}

func (c *Client) complete(ctx context.Context, operation, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var text string
	err := c.executor.Do(ctx, operation, classifyAPIError, func(ctx context.Context) error {
		resp, err := c.api.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
			Model:       oai.ChatModel(c.cfg.ChatModel),
			Temperature: oai.Float(0),
			Messages: []oai.ChatCompletionMessageParamUnion{
				oai.SystemMessage(system),
				oai.UserMessage(user),
			},
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return domain.WrapError(domain.ErrTemporary, operation, fmt.Errorf("empty choice list"))
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", operation, err)
	}
	return text, nil
}

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := oai.EmbeddingNewParams{
		Model: oai.EmbeddingModel(c.cfg.EmbeddingModel),
		Input: oai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	if c.cfg.EmbeddingDims > 0 {
		params.Dimensions = oai.Int(int64(c.cfg.EmbeddingDims))
	}

	var vectors [][]float32
	err := c.executor.Do(ctx, "embed", classifyAPIError, func(ctx context.Context) error {
		resp, err := c.api.Embeddings.New(ctx, params)
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return domain.WrapError(domain.ErrTemporary, "embed",
				fmt.Errorf("got %d embeddings for %d inputs", len(resp.Data), len(texts)))
		}
		vectors = make([][]float32, len(resp.Data))
		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			for j, v := range item.Embedding {
				vec[j] = float32(v)
			}
			vectors[item.Index] = vec
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, domain.WrapError(domain.ErrTemporary, "embed", fmt.Errorf("expected one vector, got %d", len(vectors)))
	}
	return vectors[0], nil
}
