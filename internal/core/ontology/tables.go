// Package ontology holds the domain vocabulary of the program handbook:
// top-level subject areas with their aliases, term canonicalization rules,
// and the synonym equivalences shared with the language model. All tables
// are initialized once and treated as read-only configuration data.
package ontology

import "regexp"

// Area is a canonical top-level subject grouping ("Hauptfach") with its
// registered aliases. Detection walks Areas in declaration order.
type Area struct {
	Canonical string
	Aliases   []string
}

var Areas = []Area{
	{
		Canonical: "betriebswirtschaftslehre",
		Aliases: []string{
			"bwl", "management", "marketing", "controlling",
			"finanzierung", "finance", "rechnungswesen",
			"produktion", "wirtschaftsinformatik", "logistik",
			"hr", "strategie", "organisation",
		},
	},
	{
		Canonical: "volkswirtschaftslehre",
		Aliases: []string{
			"vwl", "ökonomie", "economics", "wirtschaftspolitik",
			"makroökonomie", "mikroökonomie",
		},
	},
	{
		Canonical: "informatik",
		Aliases: []string{
			"computer science", "programmierung", "software",
			"java", "ki", "künstliche intelligenz", "ai",
			"security", "datenbanken", "internet computing",
		},
	},
	{
		Canonical: "operations research",
		Aliases: []string{
			"or", "optimierung", "supply chain", "netzwerke",
			"nichtlineare optimierung",
		},
	},
	{
		Canonical: "ingenieurwissenschaften",
		Aliases: []string{
			"ingenieurwesen", "ing", "maschinenbau", "mechatronik",
			"elektrotechnik", "fahrzeug", "werkstoff",
			"produktionstechnik", "mikrosystemtechnik", "bahnsystemtechnik",
		},
	},
	{
		Canonical: "mathematik",
		Aliases:   []string{"mathe", "analysis", "lineare algebra", "differentialgleichungen"},
	},
	{
		Canonical: "statistik",
		Aliases:   []string{"ökonometrie", "wahrscheinlichkeit", "regression"},
	},
	{
		Canonical: "wahlpflichtbereich",
		Aliases:   []string{"wahlpflicht", "seminar", "teamprojekt", "recht", "soziologie"},
	},
}

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// normReplacements canonicalizes colloquial terms. Applied once, in order;
// the order is significant because later patterns may touch spans already
// rewritten by earlier ones.
var normReplacements = []replacement{
	{regexp.MustCompile(`(?i)\bvorlesung(en)?\b`), "Teilleistung"},
	{regexp.MustCompile(`(?i)\bveranstaltung(en)?\b`), "Teilleistung"},
	{regexp.MustCompile(`(?i)\bkurs(e)?\b`), "Teilleistung"},
	{regexp.MustCompile(`(?i)\bprüf(ung|ungen)\b`), "Teilleistung"},
	{regexp.MustCompile(`(?i)\bmodul(e)?\b`), "Modul"},
	{regexp.MustCompile(`(?i)\bzust(a|ä)ndig(e|er|keit)?\b`), "Verantwortung"},
	{regexp.MustCompile(`(?i)\bprof(\.|essor(in)?)(en)?\b`), "Verantwortung"},
	{regexp.MustCompile(`(?i)\bhauptfach\b`), "Bereich"},
}

// componentTerms are generic ways of naming a course component; if one
// appears and "Teilleistung" does not, the annotation pass appends a
// clarifying suffix.
var componentTerms = []string{
	"vorlesung", "vorlesungen", "lehrveranstaltung", "lehrveranstaltungen",
	"fach", "fächer", "seminar", "seminare", "übung", "übungen",
	"praktikum", "praktika", "labor", "laborpraktikum",
}

// responsibleTerms are generic ways of naming the responsible party.
var responsibleTerms = []string{
	"zuständig", "zuständige", "zuständiger", "zuständigen",
	"verantwortlich", "verantwortliche", "verantwortlicher", "verantwortlichen",
	"professor", "professorin", "prof", "dozent", "dozentin",
}

// SynonymEquivalences is rendered into every model prompt so the generator
// and condenser treat the listed terms as interchangeable.
var SynonymEquivalences = []struct {
	Canonical string
	Synonyms  []string
}{
	{
		Canonical: "Teilleistung",
		Synonyms: []string{
			"Vorlesung", "Vorlesungen", "Lehrveranstaltung", "Lehrveranstaltungen",
			"Fach", "Fächer", "Seminar", "Seminare", "Übung", "Übungen",
			"Praktikum", "Praktika", "Labor", "Laborpraktikum",
		},
	},
	{
		Canonical: "Verantwortung",
		Synonyms: []string{
			"zuständige Person", "zuständig", "verantwortliche Person",
			"verantwortlicher Professor", "verantwortliche Professorin",
			"Dozent", "Dozentin", "Professor", "Professorin", "Prof.",
		},
	},
}
