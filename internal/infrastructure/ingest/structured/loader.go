// Package structured loads the curated module and course records that
// accompany the handbook PDF.
package structured

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

// Record is one curated entry. The text field carries the prose; the
// rest is queryable metadata.
type Record struct {
	ModuleID       string   `json:"module_id"`
	Title          string   `json:"title"`
	Text           string   `json:"text"`
	Page           int      `json:"page"`
	EctsLP         *float64 `json:"ects_lp"`
	Responsibility string   `json:"responsibility"`
	PartOf         string   `json:"part_of"`
	ComponentType  string   `json:"component_type"`
	Language       string   `json:"language"`
}

// ToChunk renders the record as an indexable chunk. Title and prose are
// joined so lexical search hits the name even when the prose omits it.
func (r Record) ToChunk() domain.Chunk {
	return domain.Chunk{
		ID:      r.ModuleID,
		Content: r.Title + "\n\n" + r.Text,
		Metadata: domain.ChunkMetadata{
			Page:           r.Page,
			Title:          r.Title,
			DocType:        domain.DocTypeStructured,
			EctsLP:         r.EctsLP,
			Responsibility: r.Responsibility,
			PartOf:         r.PartOf,
			ComponentType:  r.ComponentType,
			Language:       r.Language,
		},
	}
}

// Load reads the record file and converts every entry.
func Load(path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading structured corpus %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding structured corpus %s: %w", path, err)
	}

	chunks := make([]domain.Chunk, 0, len(records))
	for _, r := range records {
		if r.Title == "" && r.Text == "" {
			continue
		}
		chunks = append(chunks, r.ToChunk())
	}
	return chunks, nil
}

// defaultLocations are tried in order when no explicit path is
// configured. The layout drifted over time, so older checkouts keep
// working.
var defaultLocations = []string{
	"backend/TestText.json",
	"backend/docs/TestText.json",
	"TestText.json",
	"rag_pipeline/TestText.json",
	"./TestText.json",
}

// ResolvePath picks the structured corpus file: the override if set,
// otherwise the first default location that exists. An empty return
// means no structured corpus is available.
func ResolvePath(override string) string {
	if override != "" {
		return override
	}
	for _, candidate := range defaultLocations {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}
