package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/ontology"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/ports"
)

// Options tune the answer pipeline. Zero values fall back to the
// production defaults.
type Options struct {
	Weights        FusionWeights
	FusionStrategy string // "weighted" (default) or "rrf"
	RRFK           int

	DenseK     int
	LexicalK   int
	AttributeK int
	RerankTopN int

	HistoryAssistantTurns int
	MaxSources            int

	GenerateTimeout time.Duration
	JustifyTimeout  time.Duration
	ExtractTimeout  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Weights == (FusionWeights{}) {
		o.Weights = DefaultFusionWeights()
	}
	if o.FusionStrategy == "" {
		o.FusionStrategy = "weighted"
	}
	if o.RRFK <= 0 {
		o.RRFK = 60
	}
	if o.DenseK <= 0 {
		o.DenseK = 12
	}
	if o.LexicalK <= 0 {
		o.LexicalK = 20
	}
	if o.AttributeK <= 0 {
		o.AttributeK = 8
	}
	if o.RerankTopN <= 0 {
		o.RerankTopN = 6
	}
	if o.HistoryAssistantTurns <= 0 {
		o.HistoryAssistantTurns = 8
	}
	if o.MaxSources <= 0 {
		o.MaxSources = 4
	}
	if o.GenerateTimeout <= 0 {
		o.GenerateTimeout = 60 * time.Second
	}
	if o.JustifyTimeout <= 0 {
		o.JustifyTimeout = 30 * time.Second
	}
	if o.ExtractTimeout <= 0 {
		o.ExtractTimeout = 40 * time.Second
	}
	return o
}

// AnswerUseCase coordinates query normalization, history condensation,
// the three-retriever fan-out, fusion, reranking, answer synthesis, and
// interview-mode knowledge extraction.
type AnswerUseCase struct {
	index     ports.CorpusIndex
	embedder  ports.Embedder
	reranker  ports.Reranker
	chat      ports.ChatModel
	knowledge ports.KnowledgeSink
	opts      Options
	logger    *slog.Logger
}

// NewAnswerUseCase validates the fusion weights eagerly; a misconfigured
// weight set is a programming error, not a per-request condition.
func NewAnswerUseCase(
	index ports.CorpusIndex,
	embedder ports.Embedder,
	reranker ports.Reranker,
	chat ports.ChatModel,
	knowledge ports.KnowledgeSink,
	opts Options,
	logger *slog.Logger,
) (*AnswerUseCase, error) {
	opts = opts.withDefaults()
	if err := opts.Weights.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerUseCase{
		index:     index,
		embedder:  embedder,
		reranker:  reranker,
		chat:      chat,
		knowledge: knowledge,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Answer runs one request end to end and returns the Answer Record. An
// error return means the primary retrieval-and-answer path failed; the
// caller maps it to the fallback record.
func (uc *AnswerUseCase) Answer(
	ctx context.Context,
	question string,
	history []domain.Turn,
	mode domain.Mode,
) (*domain.AnswerRecord, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "answer", fmt.Errorf("question is empty"))
	}

	enriched := ontology.EnrichQuestion(ontology.AnnotateSynonyms(question))
	trimmed := TrimHistory(history, uc.opts.HistoryAssistantTurns)
	pairs := PairTurns(trimmed)
	candidates := ExtractCandidateSet(history)

	standalone, err := uc.condenseQuestion(ctx, enriched, pairs, candidates)
	if err != nil {
		return nil, fmt.Errorf("condense question: %w", err)
	}

	passages, err := uc.retrieve(ctx, standalone)
	if err != nil {
		return nil, fmt.Errorf("retrieve passages: %w", err)
	}

	record := domain.NewAnswerRecord()
	record.GeneratedQuestion = standalone

	if len(passages) == 0 {
		record.Answer = domain.AnswerUnknown
	} else {
		answer, err := uc.synthesizeAnswer(ctx, standalone, candidates, passages)
		if err != nil {
			return nil, fmt.Errorf("synthesize answer: %w", err)
		}
		record.Answer = answer

		cited := citedPassages(passages, uc.opts.MaxSources)
		for _, sc := range cited {
			record.SourceDocuments = append(record.SourceDocuments, domain.SourceRefOf(sc.Chunk))
		}
		// Best effort: a failed justification degrades to an empty string.
		record.Justification = uc.justify(ctx, question, answer, cited)
	}

	// Extraction reads the user's answer, not the retrieved passages, so
	// it runs in interview mode even when retrieval comes back empty.
	if mode.IsInterview() {
		record.ExtractedKnowledge = uc.extractKnowledge(ctx, question, LastAssistantText(history), candidates)
		uc.persistKnowledge(ctx, record.ExtractedKnowledge)
	}

	return record, nil
}

// condenseQuestion derives the standalone question. With no usable
// history the enriched question is already standalone and no model call
// is made.
func (uc *AnswerUseCase) condenseQuestion(
	ctx context.Context,
	enriched string,
	pairs []domain.Exchange,
	candidates []string,
) (string, error) {
	if len(pairs) == 0 {
		return enriched, nil
	}

	condenseCtx, cancel := context.WithTimeout(ctx, uc.opts.GenerateTimeout)
	defer cancel()

	standalone, err := uc.chat.Complete(
		condenseCtx,
		buildCondenseSystemPrompt(),
		buildCondenseUserPrompt(FormatTranscript(pairs), candidates, enriched),
	)
	if err != nil {
		return "", err
	}
	standalone = strings.TrimSpace(standalone)
	if standalone == "" {
		return enriched, nil
	}
	return standalone, nil
}

// retrieve fans out to the three retrievers concurrently, joins, fuses,
// and reranks. The retrievers are independent; any hard failure aborts
// the request because the primary path cannot degrade.
func (uc *AnswerUseCase) retrieve(ctx context.Context, standalone string) ([]domain.ScoredChunk, error) {
	var lexical, dense, attribute []domain.ScoredChunk

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results, err := uc.index.SearchLexical(groupCtx, standalone, uc.opts.LexicalK)
		if err != nil {
			return fmt.Errorf("lexical search: %w", err)
		}
		lexical = results
		return nil
	})
	g.Go(func() error {
		vector, err := uc.embedder.EmbedQuery(groupCtx, standalone)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		results, err := uc.index.SearchDense(groupCtx, vector, uc.opts.DenseK)
		if err != nil {
			return fmt.Errorf("dense search: %w", err)
		}
		dense = results
		return nil
	})
	g.Go(func() error {
		filter := inferAttributeFilter(groupCtx, uc.chat, standalone)
		if filter.IsZero() {
			return nil
		}
		results, err := uc.index.SearchAttribute(groupCtx, standalone, filter, uc.opts.AttributeK)
		if err != nil {
			return fmt.Errorf("attribute search: %w", err)
		}
		attribute = results
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lists := []rankedList{
		{weight: uc.opts.Weights.Lexical, chunks: lexical},
		{weight: uc.opts.Weights.Dense, chunks: dense},
		{weight: uc.opts.Weights.Attribute, chunks: attribute},
	}

	var fused []domain.ScoredChunk
	if uc.opts.FusionStrategy == "rrf" {
		fused = fuseRRF(lists, uc.opts.RRFK)
	} else {
		fused = fuseWeighted(lists)
	}
	if len(fused) == 0 {
		return nil, nil
	}

	reranked, err := uc.reranker.Rerank(ctx, standalone, fused, uc.opts.RerankTopN)
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	return reranked, nil
}

func (uc *AnswerUseCase) synthesizeAnswer(
	ctx context.Context,
	standalone string,
	candidates []string,
	passages []domain.ScoredChunk,
) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, uc.opts.GenerateTimeout)
	defer cancel()

	answer, err := uc.chat.Complete(
		genCtx,
		buildAnswerSystemPrompt(),
		buildAnswerUserPrompt(candidates, passages, standalone),
	)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return domain.AnswerUnknown, nil
	}
	return answer, nil
}

// justify produces the short plausibility note. Best effort: any failure
// degrades to an empty justification.
func (uc *AnswerUseCase) justify(ctx context.Context, question, answer string, cited []domain.ScoredChunk) string {
	contents := make([]string, 0, len(cited))
	for _, sc := range cited {
		contents = append(contents, sc.Chunk.Content)
	}
	excerpt := strings.Join(contents, "\n\n")
	// Truncate by runes, not bytes; a byte cut can land inside a German
	// umlaut and feed the model an invalid tail.
	if runes := []rune(excerpt); len(runes) > answerContextBudget {
		excerpt = string(runes[:answerContextBudget])
	}

	justifyCtx, cancel := context.WithTimeout(ctx, uc.opts.JustifyTimeout)
	defer cancel()

	justification, err := uc.chat.Complete(
		justifyCtx,
		justificationSystemPrompt,
		buildJustificationUserPrompt(question, answer, excerpt),
	)
	if err != nil {
		uc.logger.Warn("justification_failed", "error", err)
		return ""
	}
	return strings.TrimSpace(justification)
}

func (uc *AnswerUseCase) persistKnowledge(ctx context.Context, records []domain.KnowledgeRecord) {
	if uc.knowledge == nil || len(records) == 0 {
		return
	}
	if err := uc.knowledge.SaveKnowledge(ctx, records); err != nil {
		uc.logger.Warn("knowledge_persist_failed", "error", err, "records", len(records))
	}
}

// citedPassages dedups the reranked passages by (source, page) and caps
// the citation list, keeping the first passage per reference.
func citedPassages(passages []domain.ScoredChunk, maxSources int) []domain.ScoredChunk {
	refs := make([]domain.SourceRef, 0, len(passages))
	first := make(map[domain.SourceRef]domain.ScoredChunk, len(passages))
	for _, sc := range passages {
		ref := domain.SourceRefOf(sc.Chunk)
		refs = append(refs, ref)
		if _, ok := first[ref]; !ok {
			first[ref] = sc
		}
	}

	out := make([]domain.ScoredChunk, 0, maxSources)
	for _, ref := range domain.DedupSourceRefs(refs) {
		out = append(out, first[ref])
		if len(out) >= maxSources {
			break
		}
	}
	return out
}
