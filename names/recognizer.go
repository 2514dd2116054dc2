package names

import (
	"regexp"
	"strings"
)

// Entity labels consumed by the parser. Exactly these two types matter;
// recognizers must not emit anything else.
const (
	LabelPerson = "PERSON"
	LabelOrg    = "ORG"
)

// Entity is one named entity found in a text span.
type Entity struct {
	Text  string
	Label string
}

// Recognizer finds PERSON and ORG entities in free text. Implementations
// must be deterministic for identical input and safe for concurrent use;
// the parser holds a single Recognizer for the life of the process.
type Recognizer interface {
	Entities(text string) []Entity
}

// Override forces a known string to a fixed entity type before the general
// recognizer runs. These cover idiosyncratic strings in the legacy data
// that any general model gets wrong.
type Override struct {
	Pattern string
	Label   string
}

// DefaultOverrides are the known problem strings in VAULT metadata.
func DefaultOverrides() []Override {
	return []Override{
		// one ORG entity, not two separate ones
		{Pattern: "California School of Arts and Crafts", Label: LabelOrg},
		{Pattern: "Monir (or possibly Yonir)", Label: LabelOrg},
		{Pattern: "KR (Ken Rignal?)", Label: LabelPerson},
	}
}

// OverrideRecognizer checks an override-pattern table before delegating to
// an inner recognizer. Overrides match as substrings, mirroring how an
// entity ruler takes priority over a statistical model.
type OverrideRecognizer struct {
	Overrides []Override
	Inner     Recognizer
}

// Entities implements Recognizer.
func (r *OverrideRecognizer) Entities(text string) []Entity {
	for _, o := range r.Overrides {
		if strings.Contains(text, o.Pattern) {
			out := []Entity{{Text: o.Pattern, Label: o.Label}}
			// recognize the remainder around the override span
			rest := strings.TrimSpace(strings.Replace(text, o.Pattern, "", 1))
			rest = strings.Trim(rest, ",;+ ")
			if rest != "" && r.Inner != nil {
				out = append(out, r.Inner.Entities(rest)...)
			}
			return out
		}
	}
	if r.Inner == nil {
		return nil
	}
	return r.Inner.Entities(text)
}

// DefaultRecognizer returns the deterministic lexicon recognizer wrapped in
// the default override table.
func DefaultRecognizer() Recognizer {
	return &OverrideRecognizer{
		Overrides: DefaultOverrides(),
		Inner:     &LexiconRecognizer{},
	}
}

// orgKeywords mark a capitalized span as an organization. Drawn from the
// institution and publisher names that actually occur in the legacy data.
var orgKeywords = map[string]bool{
	"academy": true, "alliance": true, "archive": true, "archives": true,
	"association": true, "center": true, "centre": true, "club": true,
	"co.": true, "collective": true, "college": true, "committee": true,
	"company": true, "corporation": true, "council": true, "department": true,
	"firm": true, "foundation": true, "gallery": true, "group": true,
	"inc.": true, "institute": true, "laboratory": true, "libraries": true,
	"library": true, "museum": true, "office": true, "press": true,
	"program": true, "school": true, "society": true, "studio": true,
	"studios": true, "university": true, "workshop": true,
}

// connectors may appear inside one entity span without breaking it.
var connectorWords = map[string]bool{
	"of": true, "the": true, "and": true, "for": true, "&": true,
	"de": true, "la": true, "del": true, "van": true, "von": true,
}

var tokenSplit = regexp.MustCompile(`[\s]+`)

// LexiconRecognizer is a deterministic stand-in for a statistical NER
// model: it segments the text into capitalized spans and labels each span
// ORG when it contains an organization keyword, PERSON when it looks like
// a short personal name. It exists so that mapping output never varies
// with a model version; swap in a model-backed Recognizer behind the same
// interface if recall ever matters more than determinism.
type LexiconRecognizer struct{}

// Entities implements Recognizer.
func (r *LexiconRecognizer) Entities(text string) []Entity {
	var entities []Entity
	for _, span := range splitSpans(text) {
		if e, ok := classifySpan(span); ok {
			entities = append(entities, e)
		}
	}
	return entities
}

// splitSpans breaks text into candidate entity spans on commas, semicolons
// and plus signs, then trims non-name tokens from the edges.
func splitSpans(text string) []string {
	raw := regexp.MustCompile(`[,;+/]`).Split(text, -1)
	var spans []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			spans = append(spans, s)
		}
	}
	return spans
}

// classifySpan labels one span, or reports false for spans that look like
// neither a person nor an organization (dates, descriptors, lowercase runs).
func classifySpan(span string) (Entity, bool) {
	tokens := tokenSplit.Split(span, -1)

	capitalized := 0
	hasOrgKeyword := false
	for _, tok := range tokens {
		lower := strings.ToLower(strings.Trim(tok, "()."))
		if orgKeywords[lower] || orgKeywords[strings.ToLower(tok)] {
			hasOrgKeyword = true
		}
		if isCapitalized(tok) {
			capitalized++
		} else if !connectorWords[lower] {
			// a non-connector lowercase or numeric token breaks the span
			return Entity{}, false
		}
	}
	if capitalized == 0 {
		return Entity{}, false
	}

	if hasOrgKeyword {
		return Entity{Text: span, Label: LabelOrg}, true
	}

	// all-caps single tokens are acronyms, hence organizations
	if len(tokens) == 1 && strings.ToUpper(span) == span {
		return Entity{Text: span, Label: LabelOrg}, true
	}

	// short capitalized spans read as personal names
	if len(tokens) <= 3 {
		return Entity{Text: span, Label: LabelPerson}, true
	}

	// long capitalized runs without an org keyword: likely an organization
	// or a title, either way not a single person
	return Entity{Text: span, Label: LabelOrg}, true
}

func isCapitalized(tok string) bool {
	for _, r := range tok {
		return r >= 'A' && r <= 'Z'
	}
	return false
}
