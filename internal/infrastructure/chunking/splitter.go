// Package chunking splits handbook text into retrieval-sized windows,
// cutting coarsely at module and course boundaries first.
package chunking

import (
	"regexp"
	"strings"
)

// sectionStartPattern marks the first line of a module or course entry
// in the handbook.
var sectionStartPattern = regexp.MustCompile(`^\s*(M|T)-WIWI-\d{5}`)

// Section is a coarse handbook slice starting at a module or course
// header, tagged with the page its header appeared on.
type Section struct {
	Text string
	Page int
}

// Page is one page of extracted handbook text, 1-based.
type Page struct {
	Number int
	Text   string
}

// SplitSections cuts page text at module and course boundaries. Text
// before the first boundary forms a leading section on page one.
func SplitSections(pages []Page) []Section {
	var (
		out     []Section
		current strings.Builder
		page    = 1
	)
	for _, p := range pages {
		for _, line := range strings.Split(p.Text, "\n") {
			if sectionStartPattern.MatchString(line) && current.Len() > 0 {
				out = append(out, Section{Text: current.String(), Page: page})
				current.Reset()
				page = p.Number
			}
			current.WriteString(line)
			current.WriteString("\n")
		}
	}
	if current.Len() > 0 {
		out = append(out, Section{Text: current.String(), Page: page})
	}
	return out
}

// Splitter windows section text by rune count with overlap.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 300
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + s.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// TitleOf derives a chunk title from its first line, capped at 120
// runes.
func TitleOf(chunk string) string {
	line, _, _ := strings.Cut(chunk, "\n")
	line = strings.TrimSpace(line)
	runes := []rune(line)
	if len(runes) > 120 {
		runes = runes[:120]
	}
	return string(runes)
}
