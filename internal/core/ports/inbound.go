package ports

import (
	"context"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// QuestionAnswerer runs one conversational retrieval-and-answer request
// end to end. History is the full caller-supplied transcript; the engine
// recomputes trimming and candidate derivation per call.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string, history []domain.Turn, mode domain.Mode) (*domain.AnswerRecord, error)
}
