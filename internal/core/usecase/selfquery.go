package usecase

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/ports"
)

// ectsPhrasePattern resolves credit-point threshold phrases
// deterministically, before any model call: "mehr als" ⇒ >, "mindestens" ⇒
// ≥, "genau" ⇒ =, "höchstens" ⇒ ≤, "weniger als" ⇒ <.
var ectsPhrasePattern = regexp.MustCompile(
	`(?i)\b(mehr als|mindestens|genau|höchstens|weniger als)\s+(\d+(?:[.,]\d+)?)\s*(?:lp|ects|leistungspunkte?n?)\b`,
)

var ectsOps = map[string]domain.NumberOp{
	"mehr als":    domain.OpGreater,
	"mindestens":  domain.OpGreaterEqual,
	"genau":       domain.OpEqual,
	"höchstens":   domain.OpLessEqual,
	"weniger als": domain.OpLess,
}

// parseEctsConstraint extracts an explicit credit-point threshold from the
// question, if present.
func parseEctsConstraint(question string) (domain.NumberOp, *float64) {
	m := ectsPhrasePattern.FindStringSubmatch(question)
	if m == nil {
		return "", nil
	}
	op, ok := ectsOps[strings.ToLower(m[1])]
	if !ok {
		return "", nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	if err != nil {
		return "", nil
	}
	return op, &value
}

type inferredFilter struct {
	Ects *struct {
		Op    string  `json:"op"`
		Value float64 `json:"value"`
	} `json:"ects_lp"`
	Responsibility string `json:"responsibility"`
}

// inferAttributeFilter builds the attribute-filtered retriever's
// constraints: the deterministic threshold pass first, then a model call
// for anything the pass cannot see (responsible party, implicit
// thresholds). Malformed model output degrades to whatever the
// deterministic pass found, never to an error.
func inferAttributeFilter(ctx context.Context, chat ports.ChatModel, question string) domain.AttributeFilter {
	var filter domain.AttributeFilter
	filter.EctsOp, filter.EctsValue = parseEctsConstraint(question)

	raw, err := chat.CompleteJSON(ctx, filterInferenceSystemPrompt, buildFilterInferencePrompt(question))
	if err != nil {
		return filter
	}

	var inferred inferredFilter
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &inferred); err != nil {
		return filter
	}

	if filter.EctsValue == nil && inferred.Ects != nil {
		if op, ok := validNumberOp(inferred.Ects.Op); ok {
			value := inferred.Ects.Value
			filter.EctsOp = op
			filter.EctsValue = &value
		}
	}
	if resp := strings.TrimSpace(inferred.Responsibility); resp != "" {
		filter.Responsibility = resp
	}
	return filter
}

func validNumberOp(op string) (domain.NumberOp, bool) {
	switch domain.NumberOp(strings.TrimSpace(op)) {
	case domain.OpGreater, domain.OpGreaterEqual, domain.OpEqual, domain.OpLessEqual, domain.OpLess:
		return domain.NumberOp(strings.TrimSpace(op)), true
	default:
		return "", false
	}
}
