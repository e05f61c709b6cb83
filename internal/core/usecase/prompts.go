package usecase

import (
	"fmt"
	"strings"

	"github.com/JeWeidn/tkc-Chatbot/internal/core/domain"
	"github.com/JeWeidn/tkc-Chatbot/internal/core/ontology"
)

const answerContextBudget = 3000

func buildAnswerSystemPrompt() string {
	return fmt.Sprintf(`Du bist Studienberater des B.Sc.-Wirtschaftsingenieurwesens.
Behandle folgende Synonyme als äquivalent:
%s

Begriffslogik:
• 'Bereich' bedeutet 'Hauptfach' (BWL, VWL, Informatik, Operations Research, Ingenieurwissenschaften; zusätzlich Mathematik, Statistik, Wahlpflichtbereich). Hierarchie: Bereich/Hauptfach → Module → Teilleistungen.
• Wenn explizit nach Teilleistungen gefragt wird, nenne AUSSCHLIESSLICH Teilleistungen (IDs 'T-'); vermeide Module ('M-').
• LP-Schwellen strikt beachten: 'mehr als X' ⇒ > X; 'mindestens X' ⇒ ≥ X; 'genau X' ⇒ == X.
Zitiere nur Fakten aus dem Kontext. Wenn nichts belegbar ist, antworte exakt: '%s'`,
		ontology.SynonymContract(), domain.AnswerUnknown)
}

func buildAnswerUserPrompt(candidates []string, passages []domain.ScoredChunk, question string) string {
	var context strings.Builder
	for idx, sc := range passages {
		context.WriteString(fmt.Sprintf(
			"[%d] quelle=%s seite=%d\n%s\n\n",
			idx+1,
			sc.Chunk.Metadata.Source,
			sc.Chunk.Metadata.Page,
			sc.Chunk.Content,
		))
	}

	return fmt.Sprintf(
		"Kandidatensatz (optional):\n%s\n\nKontext:\n%s\nFrage: %s",
		candidateBlock(candidates), context.String(), question,
	)
}

const condenseSystemTemplate = `Formuliere die letzte Nutzerfrage zu einer eigenständigen, präzisen Frage in deutscher Sprache um.
Behandle folgende Synonyme als äquivalent:
%s

Nutze strikt den Gesprächsverlauf, um Referenzen wie 'diese'/'davon' aufzulösen und ALLE genannten Einschränkungen zu bewahren (z.B. Bereich/Hauptfach, zuvor genannte Fächer/Teilleistungen, LP-Schwellen, Semester, Verantwortungen).
Nutze, falls angegeben, den Kandidatensatz als einzig zulässige Auswahlmenge.
Füge KEINE neuen Annahmen hinzu. Antworte NUR mit der umformulierten Frage.`

func buildCondenseSystemPrompt() string {
	return fmt.Sprintf(condenseSystemTemplate, ontology.SynonymContract())
}

func buildCondenseUserPrompt(transcript string, candidates []string, question string) string {
	return fmt.Sprintf(
		"Gesprächsverlauf (gekürzt):\n%s\n\nKandidatensatz (optional):\n%s\n\nLetzte Frage:\n%s",
		transcript, candidateBlock(candidates), question,
	)
}

const justificationSystemPrompt = `Du bist Tutor. Fasse in höchstens 3 Sätzen zusammen, warum die Antwort auf Basis des Kontexts plausibel ist. Keine neuen Infos hinzufügen.`

func buildJustificationUserPrompt(question, answer, contextExcerpt string) string {
	return fmt.Sprintf("Frage: %s\nAntwort: %s\nKontext:\n%s", question, answer, contextExcerpt)
}

const extractionSystemPrompt = `Du extrahierst Expertenwissen aus einer Interview-Antwort.
Aufgabe: Mappe die Antwort auf genau eine Ziel-Entität (Teilleistung 'T-…' oder Modul 'M-…'), bestimme eine passende Kategorie aus der vorgegebenen Liste und extrahiere den inhaltlichen Wert.
Gib ein JSON-Array mit 0..n Records zurück. Jeder Record:
{"target_type":"teilleistung|modul","target_id":"T-…|M-…","category":"<EIN GENAUER LABEL AUS DER LISTE>","value":"<knapper Inhalt, 1–3 Sätze>","confidence":0.0..1.0}

Synonyme beachten: Teilleistung≈Vorlesung/Kurs/Veranstaltung, Verantwortung≈zuständige Person/Professor/in, Bereich≈Hauptfach/Fach.
Wenn kein Ziel ermittelbar ist, gib ein leeres Array [] zurück.`

func buildExtractionUserPrompt(candidates []string, lastBotMsg, userAnswer string, idHints []string) string {
	categories := make([]string, 0, len(domain.KnowledgeCategories))
	for _, c := range domain.KnowledgeCategories {
		categories = append(categories, "- "+c)
	}

	botMsg := lastBotMsg
	if botMsg == "" {
		botMsg = "(leer)"
	}
	hints := "(keine)"
	if len(idHints) > 0 {
		hints = strings.Join(idHints, ", ")
	}

	return fmt.Sprintf(
		"Kategorien:\n%s\n\nKandidatensatz (zuletzt genannte Titel):\n%s\n\nLetzte Bot-Frage / Kontext:\n%s\n\nNutzer-Antwort:\n%s\n\nID-Hinweise (falls vorhanden): %s\n",
		strings.Join(categories, "\n"), candidateBlock(candidates), botMsg, userAnswer, hints,
	)
}

const filterInferenceSystemPrompt = `Du leitest aus einer Frage über Modul- und Teilleistungsbeschreibungen Metadaten-Filter ab.
Erlaubte Attribute: ects_lp (float, Leistungspunkte) und responsibility (string, verantwortlicher Dozent).
Gib NUR ein JSON-Objekt zurück:
{"ects_lp":{"op":">|>=|=|<=|<","value":<zahl>} oder null,"responsibility":"<name>" oder ""}
Erfinde keine Filter, die die Frage nicht nennt.`

func buildFilterInferencePrompt(question string) string {
	return "Frage:\n" + question
}

func candidateBlock(candidates []string) string {
	if len(candidates) == 0 {
		return "(keine)"
	}
	return strings.Join(candidates, "\n")
}

// extractJSONObject salvages the outermost JSON object from sloppy model
// output (markdown fences, prose around the payload).
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

// extractJSONArray does the same for the outermost JSON array.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
