package domain

const (
	// AnswerUnknown is the exact sentinel emitted when no retrieved passage
	// supports an answer.
	AnswerUnknown = "Ich weiß es nicht."

	// AnswerFallback is the fixed user-facing text of the fallback record
	// emitted on unrecoverable internal failure.
	AnswerFallback = "Es gab ein technisches Problem bei der Auswertung. Bitte stelle deine letzte Frage erneut."
)

// AnswerRecord is the sole output contract of a query request. It is
// constructed fresh per request and serialized as a single JSON line.
type AnswerRecord struct {
	Answer             string            `json:"answer"`
	GeneratedQuestion  string            `json:"generated_question"`
	SourceDocuments    []SourceRef       `json:"source_documents"`
	Justification      string            `json:"justification"`
	ExtractedKnowledge []KnowledgeRecord `json:"extracted_knowledge"`
	Error              string            `json:"error,omitempty"`
}

// NewAnswerRecord returns a record with non-nil collections so the JSON
// output always carries arrays, never null.
func NewAnswerRecord() *AnswerRecord {
	return &AnswerRecord{
		SourceDocuments:    []SourceRef{},
		ExtractedKnowledge: []KnowledgeRecord{},
	}
}

// FallbackAnswerRecord is emitted instead of crashing when the primary
// retrieval-and-answer path fails.
func FallbackAnswerRecord(err error) *AnswerRecord {
	record := NewAnswerRecord()
	record.Answer = AnswerFallback
	if err != nil {
		record.Error = err.Error()
	}
	return record
}
