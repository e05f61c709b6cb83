package usecase

import (
	"fmt"
	"strings"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

const transcriptMaxPairs = 12

// TrimHistory keeps at most maxAssistant assistant turns, scanning from
// the most recent turn backward, plus for each kept assistant turn the
// immediately preceding user turn. System turns are skipped entirely.
// Original order is preserved in the result.
func TrimHistory(turns []domain.Turn, maxAssistant int) []domain.Turn {
	if maxAssistant <= 0 {
		maxAssistant = 8
	}

	keep := make(map[int]struct{}, 2*maxAssistant)
	assistantSeen := 0
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role != domain.RoleAssistant {
			continue
		}
		if assistantSeen >= maxAssistant {
			continue
		}
		assistantSeen++
		keep[i] = struct{}{}
		if i > 0 && turns[i-1].Role == domain.RoleUser {
			keep[i-1] = struct{}{}
		}
	}

	out := make([]domain.Turn, 0, len(keep))
	for i, turn := range turns {
		if _, ok := keep[i]; ok {
			out = append(out, turn)
		}
	}
	return out
}

// PairTurns pairs each user turn with the assistant turn that immediately
// follows it. A user turn with no following assistant turn is dropped
// from the paired form.
func PairTurns(turns []domain.Turn) []domain.Exchange {
	pairs := make([]domain.Exchange, 0, len(turns)/2)
	lastUser := ""
	haveUser := false
	for _, turn := range turns {
		switch turn.Role {
		case domain.RoleUser:
			lastUser = turn.Content
			haveUser = true
		case domain.RoleAssistant:
			if haveUser {
				pairs = append(pairs, domain.Exchange{User: lastUser, Assistant: turn.Content})
				haveUser = false
			}
		}
	}
	return pairs
}

// FormatTranscript renders the trailing exchanges for the condenser.
func FormatTranscript(pairs []domain.Exchange) string {
	if len(pairs) > transcriptMaxPairs {
		pairs = pairs[len(pairs)-transcriptMaxPairs:]
	}
	blocks := make([]string, 0, len(pairs))
	for _, p := range pairs {
		blocks = append(blocks, fmt.Sprintf("User: %s\nAssistant: %s", p.User, p.Assistant))
	}
	return strings.Join(blocks, "\n\n")
}

// LastAssistantText returns the most recent assistant turn of the full
// history, used as interview context for the knowledge extractor.
func LastAssistantText(turns []domain.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleAssistant {
			return turns[i].Content
		}
	}
	return ""
}
