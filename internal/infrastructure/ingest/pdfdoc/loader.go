// Package pdfdoc extracts per-page text from the handbook PDF and cuts
// it into indexable chunks.
package pdfdoc

import (
	"fmt"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/infrastructure/chunking"
)

// LoadPages reads the PDF's plain text page by page. Pages whose text
// cannot be decoded are skipped rather than failing the whole import;
// the handbook has decorative pages that trip the extractor.
func LoadPages(path string) ([]chunking.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]chunking.Page, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, chunking.Page{Number: i, Text: text})
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf %s yielded no extractable text", path)
	}
	return pages, nil
}

// Chunks converts the PDF into raw handbook chunks: coarse cuts at
// module boundaries, then overlapping windows with a first-line title.
func Chunks(path string, splitter *chunking.Splitter) ([]domain.Chunk, error) {
	pages, err := LoadPages(path)
	if err != nil {
		return nil, err
	}

	source := filepath.Base(path)
	var out []domain.Chunk
	for _, section := range chunking.SplitSections(pages) {
		for _, text := range splitter.Split(section.Text) {
			out = append(out, domain.Chunk{
				Content: text,
				Metadata: domain.ChunkMetadata{
					Source:  source,
					Page:    section.Page,
					Title:   chunking.TitleOf(text),
					DocType: domain.DocTypeRaw,
				},
			})
		}
	}
	return out, nil
}
