package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
)

func TestParseEctsConstraintOperators(t *testing.T) {
	cases := []struct {
		question string
		op       domain.NumberOp
		value    float64
	}{
		{"Welche Teilleistungen haben mehr als 6 LP?", domain.OpGreater, 6},
		{"Module mit mindestens 6 ECTS", domain.OpGreaterEqual, 6},
		{"Was hat genau 9 LP?", domain.OpEqual, 9},
		{"Alles mit höchstens 4,5 Leistungspunkten", domain.OpLessEqual, 4.5},
		{"Fächer mit weniger als 3 LP", domain.OpLess, 3},
	}
	for _, tc := range cases {
		op, value := parseEctsConstraint(tc.question)
		if op != tc.op {
			t.Fatalf("%q: expected op %q, got %q", tc.question, tc.op, op)
		}
		if value == nil || *value != tc.value {
			t.Fatalf("%q: expected value %v, got %v", tc.question, tc.value, value)
		}
	}
}

func TestParseEctsConstraintNoThreshold(t *testing.T) {
	op, value := parseEctsConstraint("Wer ist für Statistik verantwortlich?")
	if op != "" || value != nil {
		t.Fatalf("expected no constraint, got op=%q value=%v", op, value)
	}
}

func TestInferAttributeFilterKeepsDeterministicPassOnMalformedModelOutput(t *testing.T) {
	chat := &fakeChat{jsonResponses: []string{"das ist kein JSON"}}

	filter := inferAttributeFilter(context.Background(), chat, "Module mit mehr als 6 LP")
	if filter.EctsOp != domain.OpGreater || filter.EctsValue == nil || *filter.EctsValue != 6 {
		t.Fatalf("deterministic threshold must survive malformed model output, got %+v", filter)
	}
}

func TestInferAttributeFilterDegradesOnModelError(t *testing.T) {
	chat := &fakeChat{err: errors.New("upstream down")}

	filter := inferAttributeFilter(context.Background(), chat, "Wer ist verantwortlich?")
	if !filter.IsZero() {
		t.Fatalf("expected zero filter on model error, got %+v", filter)
	}
}

func TestInferAttributeFilterTakesModelResponsibility(t *testing.T) {
	chat := &fakeChat{jsonResponses: []string{`{"ects_lp":null,"responsibility":"Grothe"}`}}

	filter := inferAttributeFilter(context.Background(), chat, "Welche Module verantwortet Grothe?")
	if filter.Responsibility != "Grothe" {
		t.Fatalf("expected responsibility filter, got %+v", filter)
	}
}

func TestInferAttributeFilterDeterministicThresholdWins(t *testing.T) {
	chat := &fakeChat{jsonResponses: []string{`{"ects_lp":{"op":"<","value":99},"responsibility":""}`}}

	filter := inferAttributeFilter(context.Background(), chat, "mehr als 6 LP bitte")
	if filter.EctsOp != domain.OpGreater || filter.EctsValue == nil || *filter.EctsValue != 6 {
		t.Fatalf("deterministic threshold must not be overridden, got %+v", filter)
	}
}

func TestInferAttributeFilterRejectsUnknownOperator(t *testing.T) {
	chat := &fakeChat{jsonResponses: []string{`{"ects_lp":{"op":"!=","value":6},"responsibility":""}`}}

	filter := inferAttributeFilter(context.Background(), chat, "irgendwas mit LP")
	if filter.EctsValue != nil {
		t.Fatalf("unknown operator must be dropped, got %+v", filter)
	}
}
