package usecase

import (
	"regexp"
	"strings"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

const (
	candidateScanWindow = 6
	candidateMinItems   = 3
	candidateMaxItems   = 20
)

var (
	listMarkerPattern      = regexp.MustCompile(`^\s*(?:\d+[.)]|[-•–])\s+`)
	lpParentheticalPattern = regexp.MustCompile(`(?i)\s*\([^)]*LP[^)]*\)`)
)

// ExtractCandidateSet scans assistant turns from most recent backward, for
// up to six turns, and returns the items of the first enumerated list with
// at least three entries. List markers and trailing credit-point
// parentheticals are stripped, punctuation trimmed, duplicates removed
// preserving order, and the result capped at twenty items. An empty result
// means "no constraint" downstream.
func ExtractCandidateSet(history []domain.Turn) []string {
	assistantSeen := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != domain.RoleAssistant {
			continue
		}
		assistantSeen++
		if assistantSeen > candidateScanWindow {
			break
		}

		items := enumeratedItems(history[i].Content)
		if len(items) < candidateMinItems {
			continue
		}

		seen := make(map[string]struct{}, len(items))
		out := make([]string, 0, len(items))
		for _, item := range items {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
			if len(out) >= candidateMaxItems {
				break
			}
		}
		return out
	}
	return nil
}

func enumeratedItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if !listMarkerPattern.MatchString(line) {
			continue
		}
		item := listMarkerPattern.ReplaceAllString(line, "")
		item = lpParentheticalPattern.ReplaceAllString(item, "")
		item = strings.Trim(item, " –-:;")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
