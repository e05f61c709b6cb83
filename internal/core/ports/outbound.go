package ports

import (
	"context"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// Embedder builds vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// CorpusIndex is the read-only query surface over the indexed corpus.
// Dense search covers embedded chunks; lexical search covers all chunks,
// raw and structured, so structured-only facts stay discoverable;
// attribute search applies inferred metadata constraints.
type CorpusIndex interface {
	SearchDense(ctx context.Context, queryVector []float32, k int) ([]domain.ScoredChunk, error)
	SearchLexical(ctx context.Context, query string, k int) ([]domain.ScoredChunk, error)
	SearchAttribute(ctx context.Context, query string, filter domain.AttributeFilter, k int) ([]domain.ScoredChunk, error)
}

// CorpusWriter replaces the persisted index wholesale. Rebuild is
// destructive and must not overlap with query traffic.
type CorpusWriter interface {
	ReplaceAll(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error
}

// Reranker re-scores fused candidates against the condensed question and
// keeps the top-N. Must be deterministic for identical inputs.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []domain.ScoredChunk, topN int) ([]domain.ScoredChunk, error)
}

// ChatModel is the generative service. CompleteJSON signals that the
// prompt demands machine-readable output; decoding stays the caller's
// responsibility.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// KnowledgeSink persists validated knowledge records. Best effort: a sink
// failure never fails the request.
type KnowledgeSink interface {
	SaveKnowledge(ctx context.Context, records []domain.KnowledgeRecord) error
}
