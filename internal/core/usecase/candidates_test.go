package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

func TestExtractCandidateSetFromEnumeratedAnswer(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleUser, Content: "Welche Fächer gibt es im Bereich Mathematik?"},
		{Role: domain.RoleAssistant, Content: "Im Bereich Mathematik gibt es:\n" +
			"1. Mathematik I (9 LP)\n" +
			"2. Mathematik II (9 LP)\n" +
			"- Statistik (4,5 LP)"},
	}

	got := ExtractCandidateSet(history)
	want := []string{"Mathematik I", "Mathematik II", "Statistik"}
	if len(got) != len(want) {
		t.Fatalf("expected %d candidates, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestExtractCandidateSetNeedsThreeItems(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleAssistant, Content: "Optionen:\n1. Mathematik I\n2. Statistik"},
	}
	if got := ExtractCandidateSet(history); got != nil {
		t.Fatalf("two-item list must not form a candidate set, got %v", got)
	}
}

func TestExtractCandidateSetPrefersMostRecentList(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleAssistant, Content: "Alt:\n- A\n- B\n- C"},
		{Role: domain.RoleUser, Content: "und aktuell?"},
		{Role: domain.RoleAssistant, Content: "Neu:\n- X\n- Y\n- Z"},
	}
	got := ExtractCandidateSet(history)
	if len(got) != 3 || got[0] != "X" {
		t.Fatalf("expected the most recent list, got %v", got)
	}
}

func TestExtractCandidateSetScanWindow(t *testing.T) {
	history := []domain.Turn{
		{Role: domain.RoleAssistant, Content: "Liste:\n- A\n- B\n- C"},
	}
	for i := 0; i < 6; i++ {
		history = append(history, domain.Turn{Role: domain.RoleAssistant, Content: fmt.Sprintf("kein Listing %d", i)})
	}
	if got := ExtractCandidateSet(history); got != nil {
		t.Fatalf("list beyond the six-turn window must be ignored, got %v", got)
	}
}

func TestExtractCandidateSetDedupsAndCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString("Alle Teilleistungen:\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "- Eintrag %d\n", i)
	}
	b.WriteString("- Eintrag 0\n")

	history := []domain.Turn{{Role: domain.RoleAssistant, Content: b.String()}}
	got := ExtractCandidateSet(history)
	if len(got) != 20 {
		t.Fatalf("expected cap of 20, got %d", len(got))
	}
	seen := make(map[string]struct{}, len(got))
	for _, item := range got {
		if _, dup := seen[item]; dup {
			t.Fatalf("duplicate candidate %q", item)
		}
		seen[item] = struct{}{}
	}
}
