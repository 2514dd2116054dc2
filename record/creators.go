package record

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cca-libraries/vault-migrate/invenio"
	"github.com/cca-libraries/vault-migrate/lookup"
	"github.com/cca-libraries/vault-migrate/names"
	"github.com/cca-libraries/vault-migrate/xmltree"
)

// affiliation strings that merely restate the institution; these are data
// entry false positives ("ccaAffiliated: No" alongside "affiliation: CCA")
// and are dropped rather than recorded as external affiliations
var (
	ccaAbbrevRegex = regexp.MustCompile(`(?i)^CCA/?C?`)
	ccaNameRegex   = regexp.MustCompile(`(?i)^California College of (the )?Arts( and Crafts)?`)
)

// creators derives the creator list from mods/name nodes. bookAuthor, when
// non-empty, is the author half of an artists'-book "Title / Author" field
// and is parsed ahead of the name nodes.
func (c *conversion) creators(bookAuthor string) ([]invenio.Creator, error) {
	var creators []invenio.Creator

	if bookAuthor != "" {
		parsed, _, err := c.m.parser.Parse(bookAuthor)
		if err != nil {
			return nil, err
		}
		for _, name := range parsed {
			if err := name.Validate(); err != nil {
				return nil, err
			}
			creators = append(creators, invenio.Creator{PersonOrOrg: name})
		}
	}

	for _, nameNode := range c.mods.FindAll("name") {
		parts := nameNode.FindAll("namePart")
		var texts []string
		for _, p := range parts {
			if t := p.Text(); t != "" {
				texts = append(texts, t)
			}
		}

		switch {
		case len(texts) == 0:
			continue
		case len(texts) == 1:
			parsed, err := c.singleNameCreators(nameNode, texts[0])
			if err != nil {
				return nil, err
			}
			creators = append(creators, parsed...)
		default:
			// a list of nameParts must not carry role or affiliation
			// children; that structure has no defined meaning
			if nameNode.FindFirst("role") != nil || nameNode.FindFirst("subNameWrapper") != nil || nameNode.Attr("type") != "" {
				return nil, fmt.Errorf("%w: namePart list alongside role/affiliation in %q", ErrBadNameStructure, texts)
			}
			for _, text := range texts {
				parsed, _, err := c.m.parser.Parse(text)
				if err != nil {
					return nil, err
				}
				for _, name := range parsed {
					if err := name.Validate(); err != nil {
						return nil, err
					}
					creators = append(creators, invenio.Creator{PersonOrOrg: name})
				}
			}
		}
	}

	if len(creators) == 0 {
		faculty, err := c.facultyCreators()
		if err != nil {
			return nil, err
		}
		creators = faculty
	}

	if len(creators) == 0 {
		if c.m.cfg.Strict {
			return nil, ErrNoCreators
		}
		// lenient policy: an explicit placeholder rather than a reject
		c.m.log.Warn("record has no creators, substituting placeholder",
			"item", c.item.UUID, "title", c.item.Name)
		creators = append(creators, invenio.Creator{
			PersonOrOrg: names.Person("", "[Unknown]"),
		})
	}

	return creators, nil
}

// singleNameCreators handles a mods/name with exactly one namePart: the
// name is parsed and combined with the node's role and affiliations. A
// parse that yields a list of names is incompatible with role/affiliation
// data and fails hard.
func (c *conversion) singleNameCreators(nameNode *xmltree.Node, text string) ([]invenio.Creator, error) {
	role := c.creatorRole(nameNode)
	affiliations := c.creatorAffiliations(nameNode)

	parsed, list, err := c.m.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	for _, name := range parsed {
		if err := name.Validate(); err != nil {
			return nil, err
		}
	}

	if list || len(parsed) > 1 {
		if role != nil || len(affiliations) > 0 {
			return nil, fmt.Errorf("%w: %q parsed to a name list but carries role/affiliation", ErrBadNameStructure, text)
		}
		creators := make([]invenio.Creator, 0, len(parsed))
		for _, name := range parsed {
			creators = append(creators, invenio.Creator{PersonOrOrg: name})
		}
		return creators, nil
	}

	return []invenio.Creator{{
		PersonOrOrg:  parsed[0],
		Role:         role,
		Affiliations: affiliations,
	}}, nil
}

// creatorRole extracts the creator's role: creators can only have one role,
// so the first roleTerm wins. Mapped through the role table; unmapped terms
// pass through lowercased with spaces stripped.
func (c *conversion) creatorRole(nameNode *xmltree.Node) *invenio.TypeRef {
	terms := nameNode.FindAll("role", "roleTerm")
	if len(terms) == 0 {
		return nil
	}
	term := terms[0].Text()
	if term == "" {
		return nil
	}
	term = strings.ReplaceAll(strings.ToLower(term), " ", "")
	return &invenio.TypeRef{ID: c.m.tables.Role(term)}
}

// creatorAffiliations collects the node's affiliations, deduplicated by
// structural equality in first-seen order.
func (c *conversion) creatorAffiliations(nameNode *xmltree.Node) []invenio.Affiliation {
	var affiliations []invenio.Affiliation
	seen := make(map[invenio.Affiliation]bool)

	add := func(a invenio.Affiliation) {
		if !seen[a] {
			seen[a] = true
			affiliations = append(affiliations, a)
		}
	}

	for _, wrapper := range nameNode.FindAll("subNameWrapper") {
		if wrapper.FirstText("ccaAffiliated") == "Yes" {
			add(invenio.Affiliation{ID: lookup.CCAAffiliationID})
			continue
		}
		for _, aff := range wrapper.AllText("affiliation") {
			if ccaAbbrevRegex.MatchString(aff) || ccaNameRegex.MatchString(aff) {
				continue
			}
			add(invenio.Affiliation{Name: aff})
		}
	}
	return affiliations
}

// facultyCreators is the syllabus fallback: when an item has no mods/name
// creators, the course's faculty names stand in, tagged as creators with
// the fixed institutional affiliation.
func (c *conversion) facultyCreators() ([]invenio.Creator, error) {
	faculty := c.local.FirstText("courseInfo", "faculty")
	if faculty == "" {
		return nil, nil
	}
	parsed, _, err := c.m.parser.Parse(faculty)
	if err != nil {
		return nil, err
	}
	var creators []invenio.Creator
	for _, name := range parsed {
		if err := name.Validate(); err != nil {
			return nil, err
		}
		creators = append(creators, invenio.Creator{
			PersonOrOrg:  name,
			Role:         &invenio.TypeRef{ID: "creator"},
			Affiliations: []invenio.Affiliation{{ID: lookup.CCAAffiliationID}},
		})
	}
	return creators, nil
}
