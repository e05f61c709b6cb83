package ontology

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	hierarchyNote = "Hierarchie: Bereich/Hauptfach → Module → Teilleistungen."

	genericAreaHint = "\n\n[Hinweis: 'Bereich' bedeutet hier 'Hauptfach' (BWL, VWL, Informatik, " +
		"Operations Research, Ingenieurwissenschaften; zusätzlich Mathematik, Statistik, Wahlpflichtbereich). " +
		hierarchyNote + "]"

	synonymFooter = "\n\n[Synonyme: Teilleistung≈Vorlesung/Kurs/Veranstaltung; " +
		"Verantwortung≈zuständige Person/Professor/in; Bereich≈Hauptfach/Fach.]"
)

var areaPhrasePattern = regexp.MustCompile(`bereich\s+([a-zäöüß\- ]{3,})`)

// NormalizeSynonyms rewrites colloquial domain terms to their canonical
// forms. The substitutions run once each, in fixed order.
func NormalizeSynonyms(question string) string {
	out := question
	for _, r := range normReplacements {
		out = r.pattern.ReplaceAllString(out, r.with)
	}
	return out
}

// DetectArea resolves a top-level subject area referenced by the question,
// either via the canonical name, a registered alias, or an explicit
// "bereich <name>" phrase.
func DetectArea(question string) (string, bool) {
	lower := strings.ToLower(question)
	for _, area := range Areas {
		if strings.Contains(lower, area.Canonical) {
			return area.Canonical, true
		}
		for _, alias := range area.Aliases {
			if containsPhrase(lower, alias) {
				return area.Canonical, true
			}
		}
	}

	m := areaPhrasePattern.FindStringSubmatch(lower)
	if m == nil {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	for _, area := range Areas {
		if strings.Contains(candidate, area.Canonical) {
			return area.Canonical, true
		}
		for _, alias := range area.Aliases {
			if strings.HasPrefix(candidate, alias) || strings.Contains(candidate, alias) {
				return area.Canonical, true
			}
		}
	}
	return "", false
}

// EnrichQuestion normalizes synonyms, appends an area disambiguation note
// when one resolves (or the generic explanation when the word "Bereich"
// appears unresolved), and always appends the synonym-equivalence footer.
// Purely additive after normalization: the normalized question body stays
// a prefix of the result.
func EnrichQuestion(question string) string {
	q := NormalizeSynonyms(question)
	if area, ok := DetectArea(q); ok {
		q += fmt.Sprintf(
			"\n\n[Hinweis: Mit 'Bereich' ist das Hauptfach '%s' gemeint. %s "+
				"Suche daher bevorzugt Module/Teilleistungen aus '%s'.]",
			area, hierarchyNote, area,
		)
	} else if containsPhrase(strings.ToLower(q), "bereich") {
		q += genericAreaHint
	}
	return q + synonymFooter
}

// AnnotateSynonyms is the second, independent annotation pass: it flags
// generic component or responsible-party terms with a short clarifying
// suffix when the canonical term is absent. Additive only.
func AnnotateSynonyms(question string) string {
	out := question
	lower := strings.ToLower(question)
	if containsAnyTerm(lower, componentTerms) && !strings.Contains(lower, "teilleistung") {
		out += " (gemeint: Teilleistungen)"
	}
	if containsAnyTerm(lower, responsibleTerms) &&
		!strings.Contains(lower, "verantwort") && !strings.Contains(lower, "zuständig") {
		out += " (gemeint: verantwortliche Person / Verantwortung)"
	}
	return out
}

// SynonymContract renders the equivalence table for model prompts.
func SynonymContract() string {
	lines := make([]string, 0, len(SynonymEquivalences))
	for _, entry := range SynonymEquivalences {
		lines = append(lines, entry.Canonical+": "+strings.Join(entry.Synonyms, ", "))
	}
	return strings.Join(lines, "\n")
}

// containsPhrase reports whether phrase occurs in text delimited by
// non-letter, non-digit runes. Regexp \b is ASCII-only, which breaks on
// umlaut-initial terms, so boundaries are checked at rune level.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for offset := 0; ; {
		idx := strings.Index(text[offset:], phrase)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		offset = start + len(phrase)
	}
}

func containsAnyTerm(text string, terms []string) bool {
	for _, term := range terms {
		if containsPhrase(text, term) {
			return true
		}
	}
	return false
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, idx int) bool {
	if idx >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[idx:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
