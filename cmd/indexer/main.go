// Command indexer rebuilds the handbook index from scratch: PDF chunks
// plus structured records, embedded and written to the SQLite index in
// one atomic swap.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeWeidn/tkc-Chatbot/internal/config"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/ports"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/chunking"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/corpus/sqlite"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/ingest/pdfdoc"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/ingest/structured"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/llm/openai"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/resilience"
	"github.com/JeWeidn/tkc-Chatbot/internal/observability/logging"
	"github.com/JeWeidn/tkc-Chatbot/internal/observability/metrics"
)

const embedBatchSize = 64

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("indexer", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewIndexerMetrics()
	metricsServer := &http.Server{
		Addr:    ":" + cfg.IndexerMetricsPort,
		Handler: m.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics_server_stopped", "error", err)
		}
	}()
	defer metricsServer.Close()

	err := run(ctx, cfg, logger, m)
	m.RecordRebuild(err)
	if err != nil {
		logger.Error("rebuild_failed", "error", err)
		os.Exit(1)
	}
	logger.Info("rebuild_complete", "index", cfg.IndexPath)
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, m *metrics.IndexerMetrics) error {
	splitter := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	rawChunks, err := pdfdoc.Chunks(cfg.PDFPath, splitter)
	if err != nil {
		return err
	}
	m.AddChunks(string(domain.DocTypeRaw), len(rawChunks))
	logger.Info("pdf_loaded", "path", cfg.PDFPath, "chunks", len(rawChunks))

	var structuredChunks []domain.Chunk
	if path := structured.ResolvePath(cfg.CorpusPath); path != "" {
		structuredChunks, err = structured.Load(path)
		if err != nil {
			return err
		}
		m.AddChunks(string(domain.DocTypeStructured), len(structuredChunks))
		logger.Info("structured_corpus_loaded", "path", path, "records", len(structuredChunks))
	} else {
		logger.Warn("structured_corpus_missing", "hint", "set RAG_CORPUS_PATH")
	}

	chunks := append(structuredChunks, rawChunks...)

	executor := resilience.NewExecutor(resilience.DefaultPolicy(), logger)
	embedder, err := openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		ChatModel:      cfg.GenModel,
		EmbeddingModel: cfg.EmbedModel,
		EmbeddingDims:  cfg.EmbedDimensions,
	}, executor, logger)
	if err != nil {
		return err
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		m.StartEmbedBatch()
		began := time.Now()
		batch, err := embedder.Embed(ctx, texts)
		m.FinishEmbedBatch(time.Since(began))
		if err != nil {
			return err
		}
		vectors = append(vectors, batch...)
	}

	store, err := sqlite.Open(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var writer ports.CorpusWriter = store
	return writer.ReplaceAll(ctx, chunks, vectors)
}
