package ontology

import (
	"strings"
	"testing"
)

func TestNormalizeSynonymsCanonicalizesTerms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Welche Vorlesungen gibt es?", "Welche Teilleistung gibt es?"},
		{"Wer ist der zuständige Professor?", "Wer ist der Verantwortung Verantwortung?"},
		{"Welches Hauptfach passt zu mir?", "Welches Bereich passt zu mir?"},
	}
	for _, tc := range cases {
		if got := NormalizeSynonyms(tc.in); got != tc.want {
			t.Fatalf("NormalizeSynonyms(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDetectAreaByCanonicalAndAlias(t *testing.T) {
	cases := []struct {
		question string
		area     string
	}{
		{"Was gibt es im Bereich Informatik?", "informatik"},
		{"Welche BWL-Module gibt es?", "betriebswirtschaftslehre"},
		{"Ich interessiere mich für Ökonometrie", "statistik"},
		{"Gibt es etwas zu Maschinenbau?", "ingenieurwissenschaften"},
		{"Was gehört zur Optimierung?", "operations research"},
	}
	for _, tc := range cases {
		area, ok := DetectArea(tc.question)
		if !ok || area != tc.area {
			t.Fatalf("DetectArea(%q) = %q,%v want %q", tc.question, area, ok, tc.area)
		}
	}
}

func TestDetectAreaUmlautAliasBoundary(t *testing.T) {
	// "ökonomie" must match as a standalone word even though the regexp
	// \b boundary cannot see umlauts.
	if area, ok := DetectArea("Mich interessiert Ökonomie generell"); !ok || area != "volkswirtschaftslehre" {
		t.Fatalf("expected volkswirtschaftslehre, got %q,%v", area, ok)
	}
	// But not as a fragment of a longer word.
	if _, ok := DetectArea("Die Mikroökonomieübungsklausur"); ok {
		t.Fatal("alias inside a compound word must not match")
	}
}

func TestDetectAreaNoMatch(t *testing.T) {
	if area, ok := DetectArea("Wie ist das Wetter heute?"); ok {
		t.Fatalf("expected no area, got %q", area)
	}
}

func TestEnrichQuestionIsAdditive(t *testing.T) {
	question := "Welche Module gibt es im Bereich Statistik?"
	enriched := EnrichQuestion(question)
	normalized := NormalizeSynonyms(question)
	if !strings.HasPrefix(enriched, normalized) {
		t.Fatalf("enrichment must keep the normalized question as prefix:\n%s", enriched)
	}
	if !strings.Contains(enriched, "Hauptfach 'statistik'") {
		t.Fatalf("expected statistik area hint:\n%s", enriched)
	}
	if !strings.Contains(enriched, "[Synonyme:") {
		t.Fatal("synonym footer must always be appended")
	}
}

func TestEnrichQuestionGenericBereichHint(t *testing.T) {
	enriched := EnrichQuestion("Welcher Bereich hat die wenigsten Klausuren?")
	if !strings.Contains(enriched, "'Bereich' bedeutet hier 'Hauptfach'") {
		t.Fatalf("expected generic area explanation:\n%s", enriched)
	}
}

func TestAnnotateSynonymsComponentHint(t *testing.T) {
	got := AnnotateSynonyms("Welche Fächer gibt es in Mathematik?")
	if !strings.HasSuffix(got, "(gemeint: Teilleistungen)") {
		t.Fatalf("expected component annotation, got %q", got)
	}

	unchanged := AnnotateSynonyms("Welche Teilleistung gibt es in Mathematik?")
	if strings.Contains(unchanged, "(gemeint:") {
		t.Fatalf("canonical term present, no annotation expected: %q", unchanged)
	}
}

func TestAnnotateSynonymsResponsibilityHint(t *testing.T) {
	got := AnnotateSynonyms("Welcher Dozent hält Statistik?")
	if !strings.HasSuffix(got, "(gemeint: verantwortliche Person / Verantwortung)") {
		t.Fatalf("expected responsibility annotation, got %q", got)
	}

	unchanged := AnnotateSynonyms("Wer hat die Verantwortung für Statistik?")
	if strings.Contains(unchanged, "(gemeint:") {
		t.Fatalf("canonical term present, no annotation expected: %q", unchanged)
	}
}

func TestSynonymContractListsCanonicals(t *testing.T) {
	contract := SynonymContract()
	if !strings.Contains(contract, "Teilleistung:") || !strings.Contains(contract, "Verantwortung:") {
		t.Fatalf("contract must list both canonicals:\n%s", contract)
	}
}
