package analyzer

// Lexicon holds the buzzword lists the analyzer scans for. Marketing words
// are counted per occurrence; the other categories are presence-only.
type Lexicon struct {
	Marketing    []string
	FakeUrgency  []string
	Exaggeration []string
	Unverified   []string
}

// LexiconPL is the Polish lexicon, the default for the PL marketplaces.
var LexiconPL = Lexicon{
	Marketing: []string{
		"rewolucyjny", "przełomowy", "innowacyjny", "unikalny",
		"najlepszy", "nr 1", "hit", "bestseller", "must-have",
		"profesjonalny", "premium", "ekskluzywny", "luksusowy",
	},
	FakeUrgency: []string{
		"ostatnie sztuki", "tylko dziś", "promocja kończy się",
		"limitowana edycja", "wyprzedaż", "okazja", "nie przegap",
		"zostało tylko", "końcówka serii",
	},
	Exaggeration: []string{
		"niesamowity", "niewiarygodny", "fenomenalny", "spektakularny",
		"cudowny", "magiczny", "idealny", "perfekcyjny", "doskonały",
		"100% skuteczny", "gwarantowany efekt",
	},
	Unverified: []string{
		"klinicznie przetestowany", "naukowo udowodniony",
		"rekomendowany przez ekspertów", "certyfikowany",
		"naturalny", "organiczny", "eko", "bio",
	},
}

// LexiconEN mirrors LexiconPL for English product pages.
var LexiconEN = Lexicon{
	Marketing: []string{
		"revolutionary", "breakthrough", "innovative", "unique",
		"best", "#1", "hit", "bestseller", "must-have",
		"professional", "premium", "exclusive", "luxury",
	},
	FakeUrgency: []string{
		"limited stock", "today only", "sale ends",
		"limited edition", "clearance", "deal", "don't miss",
		"only left", "last chance",
	},
	Exaggeration: []string{
		"amazing", "incredible", "phenomenal", "spectacular",
		"miraculous", "magical", "ideal", "perfect", "flawless",
		"100% effective", "guaranteed results",
	},
	Unverified: []string{
		"clinically tested", "scientifically proven",
		"expert recommended", "certified",
		"natural", "organic", "eco", "bio",
	},
}

// LexiconFor returns the lexicon for a language code, defaulting to Polish.
func LexiconFor(lang string) Lexicon {
	if lang == "en" {
		return LexiconEN
	}
	return LexiconPL
}
