package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

func float64Ptr(v float64) *float64 { return &v }

func testCorpus() ([]domain.Chunk, [][]float32) {
	chunks := []domain.Chunk{
		{
			ID:      "T-WIWI-102816",
			Content: "Statistik I\n\nEinführung in die deskriptive Statistik und Wahrscheinlichkeitsrechnung.",
			Metadata: domain.ChunkMetadata{
				Title:          "Statistik I",
				Page:           140,
				DocType:        domain.DocTypeStructured,
				EctsLP:         float64Ptr(9),
				Responsibility: "Grothe",
			},
		},
		{
			ID:      "T-WIWI-102817",
			Content: "Statistik II\n\nSchließende Statistik, Schätzer und Tests.",
			Metadata: domain.ChunkMetadata{
				Title:          "Statistik II",
				Page:           150,
				DocType:        domain.DocTypeStructured,
				EctsLP:         float64Ptr(6),
				Responsibility: "Grothe",
			},
		},
		{
			ID:      "raw-1",
			Content: "Operations Research behandelt Optimierungsmodelle.",
			Metadata: domain.ChunkMetadata{
				Source:  "mhb.pdf",
				Page:    42,
				Title:   "Operations Research",
				DocType: domain.DocTypeRaw,
			},
		},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 0, 1},
	}
	return chunks, vectors
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	chunks, vectors := testCorpus()
	if err := store.ReplaceAll(context.Background(), chunks, vectors); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	return store
}

func TestSearchLexicalRanksMatches(t *testing.T) {
	store := newTestStore(t)

	results, err := store.SearchLexical(context.Background(), "Was ist Operations Research?", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected lexical hits")
	}
	if results[0].Chunk.ID != "raw-1" {
		t.Fatalf("expected raw-1 first, got %s", results[0].Chunk.ID)
	}
}

func TestSearchLexicalSurvivesFTSOperators(t *testing.T) {
	store := newTestStore(t)

	// Quotes and operators in user input must not reach FTS5 raw.
	if _, err := store.SearchLexical(context.Background(), `statistik" OR NEAR( -"`, 10); err != nil {
		t.Fatalf("hostile query must be sanitized: %v", err)
	}
}

func TestSearchDenseOrdersByCosine(t *testing.T) {
	store := newTestStore(t)

	results, err := store.SearchDense(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("SearchDense: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ID != "T-WIWI-102816" {
		t.Fatalf("expected exact-direction vector first, got %s", results[0].Chunk.ID)
	}
	if results[0].Score < results[1].Score {
		t.Fatal("results must be sorted by similarity descending")
	}
}

func TestSearchAttributeThresholdOperators(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	strictly := domain.AttributeFilter{EctsOp: domain.OpGreater, EctsValue: float64Ptr(6)}
	results, err := store.SearchAttribute(ctx, "", strictly, 10)
	if err != nil {
		t.Fatalf("SearchAttribute: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "T-WIWI-102816" {
		t.Fatalf("'mehr als 6' must exclude the 6 LP entry, got %v", results)
	}

	atLeast := domain.AttributeFilter{EctsOp: domain.OpGreaterEqual, EctsValue: float64Ptr(6)}
	results, err = store.SearchAttribute(ctx, "", atLeast, 10)
	if err != nil {
		t.Fatalf("SearchAttribute: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("'mindestens 6' must include the 6 LP entry, got %v", results)
	}
}

func TestSearchAttributeResponsibilityFilter(t *testing.T) {
	store := newTestStore(t)

	filter := domain.AttributeFilter{Responsibility: "grothe"}
	results, err := store.SearchAttribute(context.Background(), "statistik", filter, 10)
	if err != nil {
		t.Fatalf("SearchAttribute: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both Grothe entries, got %v", results)
	}
	for _, sc := range results {
		if sc.Chunk.Metadata.DocType != domain.DocTypeStructured {
			t.Fatalf("attribute search must only return structured chunks, got %v", sc.Chunk.Metadata.DocType)
		}
	}
}

func TestSearchAttributeZeroFilterReturnsNothing(t *testing.T) {
	store := newTestStore(t)

	results, err := store.SearchAttribute(context.Background(), "statistik", domain.AttributeFilter{}, 10)
	if err != nil {
		t.Fatalf("SearchAttribute: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("zero filter must contribute nothing, got %v", results)
	}
}

func TestReplaceAllSwapsCorpus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	replacement := []domain.Chunk{{
		ID:      "neu",
		Content: "Völlig neuer Inhalt über Mikroökonomie.",
		Metadata: domain.ChunkMetadata{
			Source: "mhb2.pdf", Page: 1, Title: "Neu", DocType: domain.DocTypeRaw,
		},
	}}
	if err := store.ReplaceAll(ctx, replacement, [][]float32{{0, 1, 0}}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	old, err := store.SearchLexical(ctx, "Operations Research", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("old corpus must be gone after rebuild, got %v", old)
	}

	fresh, err := store.SearchLexical(ctx, "Mikroökonomie", 10)
	if err != nil {
		t.Fatalf("SearchLexical: %v", err)
	}
	if len(fresh) != 1 {
		t.Fatalf("expected the rebuilt corpus, got %v", fresh)
	}
}

func TestReplaceAllRejectsVectorMismatch(t *testing.T) {
	store := newTestStore(t)
	chunks, _ := testCorpus()
	if err := store.ReplaceAll(context.Background(), chunks, nil); err == nil {
		t.Fatal("expected mismatch error")
	}
}
