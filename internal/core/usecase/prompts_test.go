package usecase

import (
	"strings"
	"testing"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

func TestAnswerSystemPromptCarriesComponentOnlyRule(t *testing.T) {
	prompt := buildAnswerSystemPrompt()
	if !strings.Contains(prompt, "AUSSCHLIESSLICH Teilleistungen") {
		t.Fatal("system prompt must restrict component questions to T- entries")
	}
	if !strings.Contains(prompt, "vermeide Module ('M-')") {
		t.Fatal("system prompt must exclude module entries for component questions")
	}
	if !strings.Contains(prompt, domain.AnswerUnknown) {
		t.Fatal("system prompt must pin the exact unknown sentinel")
	}
}

func TestAnswerSystemPromptCarriesThresholdSemantics(t *testing.T) {
	prompt := buildAnswerSystemPrompt()
	for _, rule := range []string{"'mehr als X' ⇒ > X", "'mindestens X' ⇒ ≥ X", "'genau X' ⇒ == X"} {
		if !strings.Contains(prompt, rule) {
			t.Fatalf("system prompt missing threshold rule %q", rule)
		}
	}
}

func TestAnswerUserPromptNumbersPassagesWithProvenance(t *testing.T) {
	passages := []domain.ScoredChunk{
		{Chunk: domain.Chunk{Content: "Statistik hat 4,5 LP.", Metadata: domain.ChunkMetadata{Source: "mhb.pdf", Page: 42}}},
	}
	prompt := buildAnswerUserPrompt(nil, passages, "Wie viele LP hat Statistik?")
	if !strings.Contains(prompt, "[1] quelle=mhb.pdf seite=42") {
		t.Fatalf("prompt missing provenance header:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Kandidatensatz (optional):\n(keine)") {
		t.Fatal("empty candidate set must render as (keine)")
	}
}

func TestCondensePromptEmbedsCandidates(t *testing.T) {
	prompt := buildCondenseUserPrompt("User: a\nAssistant: b", []string{"Statistik I", "Statistik II"}, "Welche davon?")
	if !strings.Contains(prompt, "Statistik I\nStatistik II") {
		t.Fatal("candidate set must be listed verbatim")
	}
}

func TestExtractJSONObjectSalvage(t *testing.T) {
	raw := "Antwort: ```{\"responsibility\":\"Grothe\"}``` fertig"
	got := extractJSONObject(raw)
	if got != `{"responsibility":"Grothe"}` {
		t.Fatalf("unexpected salvage result %q", got)
	}
}
