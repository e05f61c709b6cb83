package domain

// DocType distinguishes raw handbook text from curated structured records.
type DocType string

const (
	DocTypeRaw        DocType = "raw"
	DocTypeStructured DocType = "structured"
)

// ChunkMetadata carries the indexed fields of a chunk. EctsLP is a pointer
// because "no credit points recorded" and "zero credit points" are
// different facts.
type ChunkMetadata struct {
	Source         string  `json:"source"`
	Page           int     `json:"page"`
	Title          string  `json:"title"`
	DocType        DocType `json:"doc_type"`
	EctsLP         *float64
	Responsibility string
	PartOf         string
	ComponentType  string
	Language       string
}

// Chunk is the unit of retrievable text. Immutable once indexed.
type Chunk struct {
	ID       string
	Content  string
	Metadata ChunkMetadata
}

// Key identifies a chunk across retrievers for fusion accounting.
func (c Chunk) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Metadata.Source + "|" + c.Metadata.Title + "|" + c.Content
}

// ScoredChunk pairs a chunk with a retriever-assigned score. Score
// semantics differ per retriever and are only comparable after fusion
// normalization.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// SourceRef identifies a cited passage by origin document and page.
type SourceRef struct {
	Page   int    `json:"page"`
	Source string `json:"source"`
}

// SourceRefOf derives the citation for a chunk. Structured records without
// a source file fall back to their title, mirroring how curated entries
// are presented to the user.
func SourceRefOf(c Chunk) SourceRef {
	source := c.Metadata.Source
	if source == "" {
		source = c.Metadata.Title
	}
	if source == "" {
		source = "meta"
	}
	return SourceRef{Page: c.Metadata.Page, Source: source}
}

// DedupSourceRefs removes repeated (source, page) pairs preserving first
// appearance order. Idempotent: applying it to its own output returns an
// equal list.
func DedupSourceRefs(refs []SourceRef) []SourceRef {
	seen := make(map[SourceRef]struct{}, len(refs))
	out := make([]SourceRef, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	return out
}
