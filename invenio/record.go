// Package invenio defines the InvenioRDM record document produced by the
// mapper and the REST client that uploads it. The document types mirror the
// platform's record JSON exactly; the mapper fills them and the client
// treats them as an opaque payload.
package invenio

import (
	"encoding/json"

	"github.com/cca-libraries/vault-migrate/names"
)

// Record is one target-platform record document plus the out-of-band
// community set, which is not part of the persisted JSON.
type Record struct {
	Access        Access         `json:"access"`
	CustomFields  map[string]any `json:"custom_fields"`
	Files         Files          `json:"files"`
	InternalNotes []InternalNote `json:"internal_notes,omitempty"`
	Metadata      Metadata       `json:"metadata"`

	// Communities the published record should join. Out of band: handed to
	// the upload client, never serialized into the document.
	Communities map[string]bool `json:"-"`

	// ViewLevel is the legacy access level, recorded in the import ID map
	// but not part of the document.
	ViewLevel string `json:"-"`
}

// Access controls record and file visibility.
type Access struct {
	Files  string `json:"files"`
	Record string `json:"record"`
}

// Files is the record's file manifest.
type Files struct {
	Enabled        bool     `json:"enabled"`
	Order          []string `json:"order"`
	DefaultPreview string   `json:"default_preview,omitempty"`
}

// InternalNote is staff-only text excluded from public descriptions.
type InternalNote struct {
	Note string `json:"note"`
}

// Metadata holds every derived descriptive field.
type Metadata struct {
	AdditionalDescriptions []Description       `json:"additional_descriptions"`
	AdditionalTitles       []Title             `json:"additional_titles"`
	Contributors           []Creator           `json:"contributors"`
	Creators               []Creator           `json:"creators"`
	Dates                  []Date              `json:"dates"`
	Description            string              `json:"description"`
	Formats                []string            `json:"formats"`
	Locations              Locations           `json:"locations"`
	PublicationDate        string              `json:"publication_date"`
	Publisher              string              `json:"publisher"`
	RelatedIdentifiers     []RelatedIdentifier `json:"related_identifiers"`
	ResourceType           TypeRef             `json:"resource_type"`
	Rights                 []TypeRef           `json:"rights"`
	Sizes                  []string            `json:"sizes"`
	Subjects               []SubjectRef        `json:"subjects"`
	Title                  string              `json:"title"`
}

// TypeRef references a vocabulary entry by ID.
type TypeRef struct {
	ID string `json:"id"`
}

// LocalizedTitle is an English display label.
type LocalizedTitle struct {
	En string `json:"en"`
}

// Title is an additional title with its type.
type Title struct {
	Title string  `json:"title"`
	Type  TypeRef `json:"type"`
}

// Description is an additional description with its type.
type Description struct {
	Type        DescriptionType `json:"type"`
	Description string          `json:"description"`
}

// DescriptionType pairs a type ID with its display title as the deposit
// form serializes it.
type DescriptionType struct {
	ID    string         `json:"id"`
	Title LocalizedTitle `json:"title"`
}

// Date is an additional (non-publication) date.
type Date struct {
	Date        string  `json:"date"`
	Type        TypeRef `json:"type"`
	Description string  `json:"description,omitempty"`
}

// Creator is one creator or contributor entry.
type Creator struct {
	PersonOrOrg  names.Name    `json:"person_or_org"`
	Role         *TypeRef      `json:"role,omitempty"`
	Affiliations []Affiliation `json:"affiliations,omitempty"`
}

// Affiliation is either a known-organization reference {id} or free text
// {name}; never both.
type Affiliation struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// RelationType is a related-identifier relation with its display title.
type RelationType struct {
	ID    string         `json:"id"`
	Title LocalizedTitle `json:"title"`
}

// RelatedIdentifier links the record to an external resource.
type RelatedIdentifier struct {
	Identifier   string       `json:"identifier"`
	RelationType RelationType `json:"relation_type"`
	Scheme       string       `json:"scheme"`
}

// SubjectRef is a resolved subject: a vocabulary ID or a free keyword.
type SubjectRef struct {
	ID      string `json:"id,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Locations is unused but required by the deposit schema.
type Locations struct {
	Features []any `json:"features"`
}

// NewRecord returns a record with the fixed public-access scaffolding and
// every list field initialized so the serialized JSON never contains null
// arrays.
func NewRecord() *Record {
	return &Record{
		Access:       Access{Files: "public", Record: "public"},
		CustomFields: map[string]any{},
		Files:        Files{Order: []string{}},
		Metadata: Metadata{
			AdditionalDescriptions: []Description{},
			AdditionalTitles:       []Title{},
			Contributors:           []Creator{},
			Creators:               []Creator{},
			Dates:                  []Date{},
			Formats:                []string{},
			Locations:              Locations{Features: []any{}},
			RelatedIdentifiers:     []RelatedIdentifier{},
			Rights:                 []TypeRef{},
			Sizes:                  []string{},
			Subjects:               []SubjectRef{},
		},
		Communities: map[string]bool{},
	}
}

// JSON serializes the record document, indented for readability.
func (r *Record) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
