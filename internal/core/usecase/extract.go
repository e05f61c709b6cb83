package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

type rawKnowledgeRecord struct {
	TargetType string  `json:"target_type"`
	TargetID   string  `json:"target_id"`
	Category   string  `json:"category"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// extractKnowledge maps a raw interview answer onto validated knowledge
// records. Literal T-/M- identifiers in the answer are passed along as
// hints. Malformed model output yields an empty list, never an error;
// individual invalid records are dropped silently.
func (uc *AnswerUseCase) extractKnowledge(
	ctx context.Context,
	userAnswer string,
	lastBotMsg string,
	candidates []string,
) []domain.KnowledgeRecord {
	idHints := domain.FindTargetIDs(userAnswer)

	extractCtx, cancel := context.WithTimeout(ctx, uc.opts.ExtractTimeout)
	defer cancel()

	raw, err := uc.chat.CompleteJSON(
		extractCtx,
		extractionSystemPrompt,
		buildExtractionUserPrompt(candidates, lastBotMsg, strings.TrimSpace(userAnswer), idHints),
	)
	if err != nil {
		uc.logger.Warn("knowledge_extraction_failed", "error", err)
		return []domain.KnowledgeRecord{}
	}

	return decodeKnowledgeRecords(raw)
}

func decodeKnowledgeRecords(raw string) []domain.KnowledgeRecord {
	var parsed []rawKnowledgeRecord
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &parsed); err != nil {
		return []domain.KnowledgeRecord{}
	}

	out := make([]domain.KnowledgeRecord, 0, len(parsed))
	for _, r := range parsed {
		record, ok := domain.ValidateKnowledge(domain.KnowledgeRecord{
			TargetType: domain.TargetType(r.TargetType),
			TargetID:   r.TargetID,
			Category:   r.Category,
			Value:      r.Value,
			Confidence: r.Confidence,
		})
		if !ok {
			continue
		}
		out = append(out, record)
	}
	return out
}
