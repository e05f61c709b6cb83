package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	LogLevel string

	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GenModel        string
	EmbedModel      string
	EmbedDimensions int

	IndexPath  string
	CorpusPath string
	PDFPath    string

	DenseK          int
	LexicalK        int
	AttributeK      int
	FusionStrategy  string
	FusionRRFK      int
	WeightLexical   float64
	WeightDense     float64
	WeightAttribute float64
	RerankTopN      int
	HistoryAITurns  int

	RerankURL string

	ChunkSize    int
	ChunkOverlap int

	GenTimeoutSeconds     int
	JustifyTimeoutSeconds int
	ExtractTimeoutSeconds int

	IndexerMetricsPort string
}

func Load() Config {
	return Config{
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:    mustEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   mustEnv("OPENAI_BASE_URL", ""),
		GenModel:        mustEnv("RAG_GEN_MODEL", "gpt-4o-mini"),
		EmbedModel:      mustEnv("RAG_EMBED_MODEL", "text-embedding-3-large"),
		EmbedDimensions: mustEnvInt("RAG_EMBED_DIMENSIONS", 1024),

		IndexPath:  mustEnv("RAG_INDEX_PATH", "./backend/vector_db/index.db"),
		CorpusPath: mustEnv("RAG_CORPUS_PATH", ""),
		PDFPath:    mustEnv("RAG_PDF_PATH", "./backend/docs/mhb_wiing_BSc_de_aktuell.pdf"),

		DenseK:          mustEnvInt("RAG_DENSE_K", 12),
		LexicalK:        mustEnvInt("RAG_LEXICAL_K", 20),
		AttributeK:      mustEnvInt("RAG_ATTRIBUTE_K", 8),
		FusionStrategy:  mustEnv("RAG_FUSION_STRATEGY", "weighted"),
		FusionRRFK:      mustEnvInt("RAG_FUSION_RRF_K", 60),
		WeightLexical:   mustEnvFloat("RAG_WEIGHT_LEXICAL", 0.25),
		WeightDense:     mustEnvFloat("RAG_WEIGHT_DENSE", 0.45),
		WeightAttribute: mustEnvFloat("RAG_WEIGHT_ATTRIBUTE", 0.30),
		RerankTopN:      mustEnvInt("RAG_RERANK_TOP_N", 6),
		HistoryAITurns:  mustEnvInt("RAG_HISTORY_AI_TURNS", 8),

		RerankURL: mustEnv("RERANK_URL", ""),

		ChunkSize:    mustEnvInt("CHUNK_SIZE", 300),
		ChunkOverlap: mustEnvInt("CHUNK_OVERLAP", 80),

		GenTimeoutSeconds:     mustEnvInt("RAG_GEN_TIMEOUT_SECONDS", 60),
		JustifyTimeoutSeconds: mustEnvInt("RAG_JUSTIFY_TIMEOUT_SECONDS", 30),
		ExtractTimeoutSeconds: mustEnvInt("RAG_EXTRACT_TIMEOUT_SECONDS", 40),

		IndexerMetricsPort: mustEnv("INDEXER_METRICS_PORT", "9090"),
	}
}

// Validate checks the settings no default can supply.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
