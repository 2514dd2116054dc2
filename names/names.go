// Package names parses the free-text name strings found in VAULT metadata
// into structured personal or organizational names.
//
// Parsing is rule-first: the documented surface patterns (semicolon and
// plus-separated lists, "Surname, Given" inversions, birth/death year
// suffixes, institution prefixes) are checked deterministically before any
// entity recognition happens, so common cases never depend on a statistical
// model. Only genuinely ambiguous strings fall through to the Recognizer.
package names

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Name types used by the target schema.
const (
	TypePersonal       = "personal"
	TypeOrganizational = "organizational"
)

// ErrAmbiguous is returned when a name string contains entities of mixed
// types with no list separator, which cannot be resolved automatically.
var ErrAmbiguous = errors.New("ambiguous name: mixed entity types without a list separator")

// Name is either a person (given + family name, both always present as
// strings even when empty) or an organization (name only).
type Name struct {
	Type       string
	GivenName  string
	FamilyName string
	Name       string
}

// Person builds a personal name.
func Person(given, family string) Name {
	return Name{Type: TypePersonal, GivenName: given, FamilyName: family}
}

// Org builds an organizational name.
func Org(name string) Name {
	return Name{Type: TypeOrganizational, Name: name}
}

// Validate checks the person/organization invariant: an organization must
// have a name, a person must have (possibly empty) given and family names
// and no organization name. Anything else fails loudly.
func (n Name) Validate() error {
	switch n.Type {
	case TypeOrganizational:
		if n.Name == "" || n.GivenName != "" || n.FamilyName != "" {
			return fmt.Errorf("invalid organizational name %+v", n)
		}
	case TypePersonal:
		if n.Name != "" {
			return fmt.Errorf("invalid personal name, has an organization name: %+v", n)
		}
	default:
		return fmt.Errorf("name has neither personal nor organizational type: %+v", n)
	}
	return nil
}

// MarshalJSON emits the person_or_org shape the target schema expects:
// persons always carry given_name and family_name (even empty strings),
// organizations carry only name.
func (n Name) MarshalJSON() ([]byte, error) {
	if n.Type == TypeOrganizational {
		return json.Marshal(struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}{n.Name, n.Type})
	}
	return json.Marshal(struct {
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Type       string `json:"type"`
	}{n.GivenName, n.FamilyName, n.Type})
}

// UnmarshalJSON accepts either person_or_org shape.
func (n *Name) UnmarshalJSON(data []byte) error {
	var raw struct {
		GivenName  *string `json:"given_name"`
		FamilyName *string `json:"family_name"`
		Name       string  `json:"name"`
		Type       string  `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Type = raw.Type
	n.Name = raw.Name
	if raw.GivenName != nil {
		n.GivenName = *raw.GivenName
	}
	if raw.FamilyName != nil {
		n.FamilyName = *raw.FamilyName
	}
	if n.Type == "" {
		if raw.GivenName != nil && raw.FamilyName != nil {
			n.Type = TypePersonal
		} else if n.Name != "" {
			n.Type = TypeOrganizational
		}
	}
	return n.Validate()
}

var (
	// year or year range after a second comma, e.g. "Joyce, James, 1882-1941"
	lifeDatesRegex = regexp.MustCompile(`^[0-9]{4}-([0-9]{4})?`)
	// institution abbreviation prefix, catches CCA and CCAC org names that
	// look like two-word personal names ("CCA Sputnik")
	institutionRegex = regexp.MustCompile(`^CCAC?`)
	// org names carrying a place parenthetical, e.g. "(Oakland, Calif.)"
	placeParenthetical = "Calif.)"
)

// Parser turns name strings into Names, falling back to a Recognizer for
// strings the surface rules cannot settle. The zero value is not usable;
// construct with NewParser.
type Parser struct {
	rec Recognizer
}

// NewParser returns a Parser backed by the given Recognizer. A nil
// recognizer gets the deterministic default wrapped in the override table.
func NewParser(rec Recognizer) *Parser {
	if rec == nil {
		rec = DefaultRecognizer()
	}
	return &Parser{rec: rec}
}

// Parse converts one metadata name string into one or more Names. The
// returned list flag reports whether the input was a multi-name form (a
// semicolon, plus, or comma separated list); callers that carry roles or
// affiliations must reject list results.
func (p *Parser) Parse(text string) (parsed []Name, list bool, err error) {
	text = strings.TrimSpace(text)

	// semicolon separated list of names
	if strings.Contains(text, "; ") {
		return p.parseList(strings.Split(text, "; "))
	}
	// a couple of items have plus-separated lists
	if strings.Contains(text, " + ") {
		return p.parseList(strings.Split(text, " + "))
	}

	if strings.Contains(text, ",") {
		return p.parseComma(text)
	}
	return p.parseSpaces(text)
}

func (p *Parser) parseList(parts []string) ([]Name, bool, error) {
	var out []Name
	for _, part := range parts {
		names, _, err := p.Parse(part)
		if err != nil {
			return nil, true, err
		}
		out = append(out, names...)
	}
	return out, true, nil
}

// parseComma handles "Surname, Given" inversions, life dates, and
// comma-separated lists.
func (p *Parser) parseComma(text string) ([]Name, bool, error) {
	parts := strings.Split(text, ", ")

	if len(parts) == 2 {
		// org names with place parentheticals are the one exception
		if strings.Contains(text, placeParenthetical) {
			return []Name{Org(text)}, false, nil
		}
		return []Name{Person(parts[1], parts[0])}, false, nil
	}

	// name with a birth/death date string after a second comma
	if len(parts) == 3 && lifeDatesRegex.MatchString(strings.TrimSpace(parts[2])) {
		return []Name{Person(parts[1], parts[0])}, false, nil
	}

	if len(parts) > 2 {
		// maybe a comma-separated list of names, ask the recognizer
		entities := p.rec.Entities(text)
		switch {
		case len(entities) == 0:
			return []Name{Org(text)}, false, nil
		case len(entities) == 1:
			if entities[0].Label == LabelPerson {
				names, _, err := p.Parse(entities[0].Text)
				return names, false, err
			}
			return []Name{Org(text)}, false, nil
		case countLabel(entities, LabelPerson) > 1:
			return p.parseList(parts)
		default:
			return nil, false, fmt.Errorf("%w: %q yielded %v", ErrAmbiguous, text, entities)
		}
	}

	// a bare trailing comma, treat the remainder as a space separated name
	return p.parseSpaces(strings.ReplaceAll(text, ",", ""))
}

// parseSpaces handles names with no comma.
func (p *Parser) parseSpaces(text string) ([]Name, bool, error) {
	// institution names that are easily mistaken for personal names
	if institutionRegex.MatchString(text) {
		return []Name{Org(text)}, false, nil
	}

	parts := strings.Split(text, " ")
	switch len(parts) {
	case 1:
		// single token, assume an acronym or organization name
		return []Name{Org(text)}, false, nil
	case 2:
		return []Name{Person(parts[0], parts[1])}, false, nil
	}

	// three or more tokens: could be "First Middle Last" or an organization
	entities := p.rec.Entities(text)
	persons := countLabel(entities, LabelPerson)
	orgs := countLabel(entities, LabelOrg)
	switch {
	case len(entities) == 0:
		return []Name{Org(text)}, false, nil
	case len(entities) == 1 && persons == 1:
		return []Name{personFromTokens(parts)}, false, nil
	case len(entities) == 1 && orgs == 1:
		return []Name{Org(text)}, false, nil
	case persons == len(entities):
		// multiple PERSON entities with no separator, assume one name
		return []Name{personFromTokens(parts)}, false, nil
	case orgs == len(entities):
		// multiple ORG entities, one Name per entity
		out := make([]Name, 0, len(entities))
		for _, e := range entities {
			out = append(out, Org(e.Text))
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %q yielded %v", ErrAmbiguous, text, entities)
	}
}

// personFromTokens folds a multi-token name into given + family using the
// last-token-is-family rule.
func personFromTokens(tokens []string) Name {
	last := len(tokens) - 1
	return Person(strings.Join(tokens[:last], " "), tokens[last])
}

func countLabel(entities []Entity, label string) int {
	n := 0
	for _, e := range entities {
		if e.Label == label {
			n++
		}
	}
	return n
}
