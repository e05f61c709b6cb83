package domain

import (
	"regexp"
	"strings"
)

// TargetType names the entity kind a knowledge record attaches to.
type TargetType string

const (
	TargetTeilleistung TargetType = "teilleistung"
	TargetModul        TargetType = "modul"
)

var (
	targetIDPattern = regexp.MustCompile(`^[TM]-[A-Z-]+-\d{5,6}$`)
	targetIDFind    = regexp.MustCompile(`\b([TM]-[A-Z-]+-\d{5,6})\b`)
)

// KnowledgeCategories is the closed label set the interview extractor may
// assign. Records with a category outside this list are dropped.
var KnowledgeCategories = []string{
	"Prüfung:Typ",
	"Prüfung:Lernstrategie",
	"Prüfung:Schwierigkeitsgrad",
	"Prüfung:Zeitkapazität",
	"Prüfung:Lerntipps",
	"Prüfung:Altklausuren",
	"Prüfung:Ähnlichkeit zu Übungsaufgaben",
	"Vorlesung:Typ",
	"Vorlesung:Lohnenswert für Prüfung",
	"Vorlesung:Lernwert allgemein",
	"Vorlesung:Interaktivität",
	"Kombinierfähigkeit",
	"Passende Berufsfelder",
	"Relevanz für die Zukunft",
	"Sympathie des Profs/Institut/Übungsleitung",
	"Lernmaterialien:Verfügbarkeit",
	"Lernmaterialien:Nützliche Foren",
	"Lernmaterialien:ILIAS sinnvoll",
}

// KnowledgeRecord is one structured fact extracted from an interview
// answer. Only validated records ever appear in an AnswerRecord.
type KnowledgeRecord struct {
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	Category   string     `json:"category"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
}

// ValidateKnowledge normalizes a candidate record and reports whether it
// satisfies the output contract. Confidence is clamped into [0,1]; every
// other violation rejects the record.
func ValidateKnowledge(r KnowledgeRecord) (KnowledgeRecord, bool) {
	r.TargetType = TargetType(strings.ToLower(strings.TrimSpace(string(r.TargetType))))
	r.TargetID = strings.TrimSpace(r.TargetID)
	r.Category = strings.TrimSpace(r.Category)
	r.Value = strings.TrimSpace(r.Value)

	if r.TargetType != TargetTeilleistung && r.TargetType != TargetModul {
		return r, false
	}
	if !targetIDPattern.MatchString(r.TargetID) {
		return r, false
	}
	if !knownCategory(r.Category) {
		return r, false
	}
	if r.Value == "" {
		return r, false
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
	return r, true
}

// FindTargetIDs returns the literal T-/M- identifiers mentioned in text,
// in order of appearance. Used as extraction hints.
func FindTargetIDs(text string) []string {
	matches := targetIDFind.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, id := range matches {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func knownCategory(category string) bool {
	for _, c := range KnowledgeCategories {
		if c == category {
			return true
		}
	}
	return false
}
