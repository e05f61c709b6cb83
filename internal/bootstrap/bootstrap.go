package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/JeWeidn/tkc-Chatbot/internal/config"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/ports"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/usecase"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/corpus/sqlite"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/llm/openai"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/rerank/crossencoder"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/resilience"
)

// App wires the query path: index, models, reranker, and the answer
// use case.
type App struct {
	Config   config.Config
	Store    *sqlite.Store
	LLM      *openai.Client
	AnswerUC ports.QuestionAnswerer

	closeFn func()
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy(), logger)

	llm, err := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		ChatModel:      cfg.GenModel,
		EmbeddingModel: cfg.EmbedModel,
		EmbeddingDims:  cfg.EmbedDimensions,
	}, executor, logger)
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}

	store, err := sqlite.Open(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	reranker, err := buildReranker(cfg, executor)
	if err != nil {
		store.Close()
		return nil, err
	}

	answerUC, err := usecase.NewAnswerUseCase(store, llm, reranker, llm, store, usecase.Options{
		Weights: usecase.FusionWeights{
			Lexical:   cfg.WeightLexical,
			Dense:     cfg.WeightDense,
			Attribute: cfg.WeightAttribute,
		},
		FusionStrategy:        cfg.FusionStrategy,
		RRFK:                  cfg.FusionRRFK,
		DenseK:                cfg.DenseK,
		LexicalK:              cfg.LexicalK,
		AttributeK:            cfg.AttributeK,
		RerankTopN:            cfg.RerankTopN,
		HistoryAssistantTurns: cfg.HistoryAITurns,
		GenerateTimeout:       time.Duration(cfg.GenTimeoutSeconds) * time.Second,
		JustifyTimeout:        time.Duration(cfg.JustifyTimeoutSeconds) * time.Second,
		ExtractTimeout:        time.Duration(cfg.ExtractTimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init answer use case: %w", err)
	}

	return &App{
		Config:   cfg,
		Store:    store,
		LLM:      llm,
		AnswerUC: answerUC,
		closeFn: func() {
			_ = store.Close()
		},
	}, nil
}

// buildReranker prefers the external cross-encoder; without a configured
// endpoint the deterministic lexical reranker keeps the pipeline usable.
func buildReranker(cfg config.Config, executor *resilience.Executor) (ports.Reranker, error) {
	if cfg.RerankURL == "" {
		return usecase.NewLexicalReranker(), nil
	}
	client, err := crossencoder.NewClient(crossencoder.Config{BaseURL: cfg.RerankURL}, executor)
	if err != nil {
		return nil, fmt.Errorf("init reranker: %w", err)
	}
	return client, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
