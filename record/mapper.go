// Package record converts one legacy VAULT item into one InvenioRDM record
// document. The mapper is pure: given an item and its parsed metadata tree
// it derives every target field from the tree, the static lookup tables,
// the subject vocabulary, and the name parser. It performs no I/O, so items
// may be mapped in parallel.
package record

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cca-libraries/vault-migrate/invenio"
	"github.com/cca-libraries/vault-migrate/lookup"
	"github.com/cca-libraries/vault-migrate/names"
	"github.com/cca-libraries/vault-migrate/subjects"
	"github.com/cca-libraries/vault-migrate/vault"
	"github.com/cca-libraries/vault-migrate/xmltree"
)

// Hard-failure conditions: these indicate upstream data or configuration
// defects and abort the single record's conversion rather than emit a
// partially wrong document.
var (
	// ErrBadNameStructure means a mods/name node violates the documented
	// structural invariants (a namePart list alongside role or affiliation
	// children, or a multi-name parse where only one name is allowed).
	ErrBadNameStructure = errors.New("unexpected mods/name structure")
	// ErrMissingSubseries means an archives series is present without a
	// recognized subseries.
	ErrMissingSubseries = errors.New("archives series without a recognized subseries")
	// ErrNoCreators is returned in strict mode when a record yields no
	// creators at all.
	ErrNoCreators = errors.New("record has no creators")
)

// Config assembles everything a Mapper needs. All lookups are explicit
// construction-time data; there is no ambient global state.
type Config struct {
	// Tables are the static lookup tables; nil means lookup.Defaults().
	Tables *lookup.Tables
	// Subjects is the preloaded term→ID vocabulary map. Required: mapping
	// without it is a configuration error.
	Subjects subjects.Map
	// Recognizer backs the name parser; nil means the deterministic
	// default recognizer.
	Recognizer names.Recognizer
	// SortPolicy orders visual attachments; nil means the default ranking.
	SortPolicy vault.SortPolicy
	// Strict makes data-quality problems (no creators, unknown archives
	// subseries) hard errors instead of logged substitutions.
	Strict bool
	// Log receives data-quality warnings; nil means slog.Default().
	Log *slog.Logger
}

// Mapper converts items. Safe for concurrent use: it holds only read-only
// configuration.
type Mapper struct {
	cfg    Config
	tables *lookup.Tables
	parser *names.Parser
	log    *slog.Logger
}

// NewMapper validates the configuration and builds a Mapper.
func NewMapper(cfg Config) (*Mapper, error) {
	if cfg.Subjects == nil {
		return nil, fmt.Errorf("record mapper requires a subjects map")
	}
	if cfg.Tables == nil {
		cfg.Tables = lookup.Defaults()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Mapper{
		cfg:    cfg,
		tables: cfg.Tables,
		parser: names.NewParser(cfg.Recognizer),
		log:    cfg.Log,
	}, nil
}

// Map converts one legacy item into a record document plus its community
// set. The same item always maps to the same document.
func (m *Mapper) Map(item vault.Item) (*invenio.Record, error) {
	metadata := item.Metadata
	if metadata == "" {
		metadata = "<xml/>"
	}
	tree, err := xmltree.ParseString(metadata)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.UUID, err)
	}

	c := &conversion{
		m:      m,
		item:   item,
		tree:   tree,
		mods:   tree.FindFirst("mods"),
		local:  tree.FindFirst("local"),
		visual: vault.SortVisual(item.Attachments, m.cfg.SortPolicy),
	}
	c.abstracts = c.findAbstracts()

	if err := c.checkArchivesSeries(); err != nil {
		return nil, err
	}

	rec := invenio.NewRecord()
	rec.ViewLevel = c.viewLevel()

	title, bookAuthor := c.title()
	rec.Metadata.Title = title

	creators, err := c.creators(bookAuthor)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.UUID, err)
	}
	rec.Metadata.Creators = creators

	rec.Metadata.AdditionalTitles = c.additionalTitles()
	rec.Metadata.Description = c.abstracts[0]
	descriptions, internal := c.descriptions()
	rec.Metadata.AdditionalDescriptions = descriptions
	rec.InternalNotes = internal
	rec.Metadata.Dates = c.dates()
	rec.Metadata.PublicationDate = c.publicationDate()
	rec.Metadata.Publisher = c.publisher()
	rec.Metadata.RelatedIdentifiers = c.relatedIdentifiers()
	rec.Metadata.ResourceType = c.resourceType()
	rec.Metadata.Rights = c.rights()
	rec.Metadata.Formats = c.formats()
	rec.Metadata.Sizes = c.sizes()

	subjectRefs, err := c.subjects()
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.UUID, err)
	}
	rec.Metadata.Subjects = subjectRefs

	rec.CustomFields = c.customFields()
	rec.Files = c.files()
	rec.Communities = c.communities()

	return rec, nil
}

// conversion carries the per-item state: the parsed tree plus memoized
// intermediate values shared by several field derivations.
type conversion struct {
	m     *Mapper
	item  vault.Item
	tree  *xmltree.Node
	mods  *xmltree.Node
	local *xmltree.Node

	visual    []vault.Attachment
	abstracts []string
}

// findAbstracts returns mods/abstract texts. The first abstract is kept
// even when blank (the primary description defaults to ""); blank abstracts
// after the first are dropped.
func (c *conversion) findAbstracts() []string {
	nodes := c.mods.FindAll("abstract")
	abstracts := []string{""}
	for i, node := range nodes {
		text := node.Text()
		if i == 0 {
			abstracts[0] = text
			continue
		}
		if text != "" {
			abstracts = append(abstracts, text)
		}
	}
	return abstracts
}

func (c *conversion) viewLevel() string {
	return c.local.FirstText("viewLevel")
}
