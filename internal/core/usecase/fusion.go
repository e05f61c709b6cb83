package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// FusionWeights are the fixed per-retriever weights of the weighted merge.
type FusionWeights struct {
	Lexical   float64
	Dense     float64
	Attribute float64
}

// DefaultFusionWeights mirror the tuned production configuration.
func DefaultFusionWeights() FusionWeights {
	return FusionWeights{Lexical: 0.25, Dense: 0.45, Attribute: 0.30}
}

// Validate requires the weights to sum to 1.0 within a small tolerance.
func (w FusionWeights) Validate() error {
	sum := w.Lexical + w.Dense + w.Attribute
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("fusion weights must sum to 1.0, got %v", sum)
	}
	if w.Lexical < 0 || w.Dense < 0 || w.Attribute < 0 {
		return fmt.Errorf("fusion weights must be non-negative")
	}
	return nil
}

// rankedList is one retriever's output with its fusion weight attached.
type rankedList struct {
	weight float64
	chunks []domain.ScoredChunk
}

type fusedCandidate struct {
	chunk     domain.Chunk
	score     float64
	firstSeen int
}

// fuseWeighted merges independently-scored lists into one ranked list.
// Each list's scores are min-max normalized before weighting because raw
// scales are not comparable across retrievers. A chunk returned by several
// retrievers accumulates each weighted contribution; ties break by the
// order chunks first appeared across the lists.
func fuseWeighted(lists []rankedList) []domain.ScoredChunk {
	acc := make(map[string]*fusedCandidate)
	order := 0
	for _, list := range lists {
		normalized := minMaxNormalize(list.chunks)
		for i, sc := range list.chunks {
			key := sc.Chunk.Key()
			cand, ok := acc[key]
			if !ok {
				cand = &fusedCandidate{chunk: sc.Chunk, firstSeen: order}
				acc[key] = cand
				order++
			}
			cand.score += list.weight * normalized[i]
		}
	}
	return sortFused(acc)
}

// fuseRRF is the degraded reciprocal-rank-fusion configuration: rank-based
// contributions instead of normalized scores, same weighting and
// tie-break rules.
func fuseRRF(lists []rankedList, rrfK int) []domain.ScoredChunk {
	if rrfK <= 0 {
		rrfK = 60
	}
	acc := make(map[string]*fusedCandidate)
	order := 0
	for _, list := range lists {
		for rank, sc := range list.chunks {
			key := sc.Chunk.Key()
			cand, ok := acc[key]
			if !ok {
				cand = &fusedCandidate{chunk: sc.Chunk, firstSeen: order}
				acc[key] = cand
				order++
			}
			cand.score += list.weight / float64(rrfK+rank+1)
		}
	}
	return sortFused(acc)
}

func sortFused(acc map[string]*fusedCandidate) []domain.ScoredChunk {
	fused := make([]*fusedCandidate, 0, len(acc))
	for _, cand := range acc {
		fused = append(fused, cand)
	}
	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].firstSeen < fused[j].firstSeen
	})

	out := make([]domain.ScoredChunk, 0, len(fused))
	for _, cand := range fused {
		out = append(out, domain.ScoredChunk{Chunk: cand.chunk, Score: cand.score})
	}
	return out
}

// minMaxNormalize maps a list's scores into [0,1]. A constant list maps to
// all ones so rank information is not destroyed by a degenerate range.
func minMaxNormalize(chunks []domain.ScoredChunk) []float64 {
	out := make([]float64, len(chunks))
	if len(chunks) == 0 {
		return out
	}

	minScore, maxScore := chunks[0].Score, chunks[0].Score
	for _, sc := range chunks[1:] {
		if sc.Score < minScore {
			minScore = sc.Score
		}
		if sc.Score > maxScore {
			maxScore = sc.Score
		}
	}

	span := maxScore - minScore
	for i, sc := range chunks {
		if span <= 0 {
			out[i] = 1
			continue
		}
		out[i] = (sc.Score - minScore) / span
	}
	return out
}
