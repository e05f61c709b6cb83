package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "RAG_GEN_MODEL", "RAG_EMBED_MODEL", "RAG_EMBED_DIMENSIONS",
		"RAG_DENSE_K", "RAG_WEIGHT_DENSE", "RAG_FUSION_STRATEGY", "CHUNK_SIZE", "RERANK_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.GenModel != "gpt-4o-mini" {
		t.Fatalf("GenModel = %q", cfg.GenModel)
	}
	if cfg.EmbedModel != "text-embedding-3-large" || cfg.EmbedDimensions != 1024 {
		t.Fatalf("embedding defaults = %q / %d", cfg.EmbedModel, cfg.EmbedDimensions)
	}
	if cfg.DenseK != 12 || cfg.LexicalK != 20 || cfg.AttributeK != 8 {
		t.Fatalf("retrieval depths = %d/%d/%d", cfg.DenseK, cfg.LexicalK, cfg.AttributeK)
	}
	if cfg.WeightLexical != 0.25 || cfg.WeightDense != 0.45 || cfg.WeightAttribute != 0.30 {
		t.Fatalf("fusion weights = %v/%v/%v", cfg.WeightLexical, cfg.WeightDense, cfg.WeightAttribute)
	}
	if cfg.FusionStrategy != "weighted" || cfg.FusionRRFK != 60 {
		t.Fatalf("fusion = %q / %d", cfg.FusionStrategy, cfg.FusionRRFK)
	}
	if cfg.ChunkSize != 300 || cfg.ChunkOverlap != 80 {
		t.Fatalf("chunking = %d / %d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.RerankURL != "" {
		t.Fatalf("RerankURL default must be empty, got %q", cfg.RerankURL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("RAG_GEN_MODEL", "gpt-4o")
	t.Setenv("RAG_DENSE_K", "30")
	t.Setenv("RAG_WEIGHT_DENSE", "0.6")
	t.Setenv("RERANK_URL", "http://localhost:8081")

	cfg := Load()

	if cfg.GenModel != "gpt-4o" {
		t.Fatalf("GenModel = %q", cfg.GenModel)
	}
	if cfg.DenseK != 30 {
		t.Fatalf("DenseK = %d", cfg.DenseK)
	}
	if cfg.WeightDense != 0.6 {
		t.Fatalf("WeightDense = %v", cfg.WeightDense)
	}
	if cfg.RerankURL != "http://localhost:8081" {
		t.Fatalf("RerankURL = %q", cfg.RerankURL)
	}
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("RAG_DENSE_K", "many")
	t.Setenv("RAG_WEIGHT_DENSE", "viel")

	cfg := Load()

	if cfg.DenseK != 12 || cfg.WeightDense != 0.45 {
		t.Fatalf("got %d / %v, want defaults", cfg.DenseK, cfg.WeightDense)
	}
}

func TestValidateRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if err := Load().Validate(); err == nil {
		t.Fatal("expected error without api key")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	if err := Load().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
