package record

import (
	"net/url"
	"sort"
	"strings"

	"github.com/cca-libraries/vault-migrate/invenio"
	"github.com/cca-libraries/vault-migrate/lookup"
	"github.com/cca-libraries/vault-migrate/vault"
)

var relationTitles = map[string]string{
	"haspart":        "Has part",
	"isidenticalto":  "Is identical to",
	"isnewversionof": "Is new version of",
	"ispartof":       "Is part of",
}

func relation(id string) invenio.RelationType {
	return invenio.RelationType{ID: id, Title: invenio.LocalizedTitle{En: relationTitles[id]}}
}

// relatedIdentifiers links the record back to its legacy permalink, out to
// every link attachment, and to the identifiers of related items.
func (c *conversion) relatedIdentifiers() []invenio.RelatedIdentifier {
	identifiers := []invenio.RelatedIdentifier{}
	// envelope-less items (bare XML input) have no permalink
	if permalink := c.item.Permalink(); permalink != "" {
		identifiers = append(identifiers, invenio.RelatedIdentifier{
			Identifier:   permalink,
			RelationType: relation("isnewversionof"),
			Scheme:       "url",
		})
	}

	for _, a := range vault.References(c.item.Attachments) {
		link := normalizeLink(a.Link())
		if link == "" {
			c.m.log.Debug("dropping unusable link attachment", "item", c.item.UUID, "url", a.Link())
			continue
		}
		identifiers = append(identifiers, invenio.RelatedIdentifier{
			Identifier:   link,
			RelationType: relation("haspart"),
			Scheme:       "url",
		})
	}

	for _, related := range c.mods.FindAll("relatedItem") {
		for _, node := range related.FindAll("identifier") {
			value := node.Text()
			if value == "" {
				continue
			}
			switch node.Attr("type") {
			case "doi":
				identifiers = append(identifiers, invenio.RelatedIdentifier{
					Identifier:   value,
					RelationType: relation("isidenticalto"),
					Scheme:       "doi",
				})
			case "issn":
				identifiers = append(identifiers, invenio.RelatedIdentifier{
					Identifier:   value,
					RelationType: relation("ispartof"),
					Scheme:       "issn",
				})
			case "isbn":
				identifiers = append(identifiers, invenio.RelatedIdentifier{
					Identifier:   value,
					RelationType: relation("ispartof"),
					Scheme:       "isbn",
				})
			}
		}
	}

	return identifiers
}

// normalizeLink repairs scheme-relative legacy URLs and drops anything that
// does not parse as an absolute HTTP(S) URL.
func normalizeLink(link string) string {
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	}
	parsed, err := url.Parse(link)
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return link
}

// communities derives the slug set the published record should join: the
// item's collection, any recognized host publication, and the forced
// artists' books community. When the record lands in a more specific
// community the catch-all libraries community is dropped.
func (c *conversion) communities() map[string]bool {
	set := map[string]bool{}

	if slug, ok := c.m.tables.Communities[c.item.Collection.UUID]; ok {
		set[slug] = true
	}
	for _, related := range c.mods.FindAll("relatedItem") {
		for _, title := range related.AllText("titleInfo", "title") {
			if slug, ok := c.m.tables.HostCommunities[title]; ok {
				set[slug] = true
			}
		}
	}
	if c.item.Collection.UUID == lookup.ArtistsBooksCollection {
		set[lookup.ArtistsBooksCommunity] = true
	}

	if len(set) > 1 && set[lookup.LibrariesCommunity] {
		delete(set, lookup.LibrariesCommunity)
	}
	return set
}

// Slugs flattens a community set into sorted form for logs and tests.
func Slugs(set map[string]bool) []string {
	slugs := make([]string, 0, len(set))
	for slug := range set {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
