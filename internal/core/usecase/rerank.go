package usecase

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// LexicalReranker is the degraded configuration used when no cross-encoder
// service is configured: a deterministic blend of the normalized fused
// score, query-token overlap with the passage, and a title hit. It keeps
// only the top-N candidates, like the primary reranker.
type LexicalReranker struct{}

func NewLexicalReranker() *LexicalReranker {
	return &LexicalReranker{}
}

func (r *LexicalReranker) Rerank(_ context.Context, query string, candidates []domain.ScoredChunk, topN int) ([]domain.ScoredChunk, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	scored := make([]domain.ScoredChunk, len(candidates))
	copy(scored, candidates)

	normalized := minMaxNormalize(scored)
	queryTokens := toTokenSet(query)
	for i := range scored {
		overlap := tokenOverlap(queryTokens, toTokenSet(scored[i].Chunk.Content))
		titleBoost := titleTokenHit(queryTokens, scored[i].Chunk.Metadata.Title)
		scored[i].Score = 0.60*normalized[i] + 0.30*overlap + 0.10*titleBoost
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Chunk.Key() < scored[j].Chunk.Key()
	})

	return scored[:topN], nil
}

func tokenOverlap(query, passage map[string]struct{}) float64 {
	if len(query) == 0 || len(passage) == 0 {
		return 0
	}
	matches := 0
	for token := range query {
		if _, ok := passage[token]; ok {
			matches++
		}
	}
	return float64(matches) / float64(len(query))
}

func titleTokenHit(query map[string]struct{}, title string) float64 {
	if len(query) == 0 || title == "" {
		return 0
	}
	title = strings.ToLower(title)
	for token := range query {
		if token != "" && strings.Contains(title, token) {
			return 1
		}
	}
	return 0
}

func toTokenSet(s string) map[string]struct{} {
	tokens := tokenizeLower(s)
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}

// tokenizeLower splits on anything that is not a letter or digit,
// lower-casing as it goes. Unicode-aware because the corpus is German.
func tokenizeLower(s string) []string {
	if s == "" {
		return nil
	}
	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
