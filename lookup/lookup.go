// Package lookup holds the static mappings the conversion depends on:
// resource types, licenses, creator roles, collection-to-community
// assignments, and the archives series vocabulary. These encode one
// institution's legacy data quirks, not a general ontology; they are plain
// data constructed at startup and passed into the record mapper.
package lookup

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Collection UUIDs with special handling in the mapper.
const (
	// SyllabusCollection items are always publication-syllabus resources.
	SyllabusCollection = "9ec74523-e018-4e01-ab4e-be4dd06cdd68"
	// ArtistsBooksCollection items store "Title / Author" in one field and
	// force membership in the artists-books community.
	ArtistsBooksCollection = "63631d16-66b8-47fc-8437-2b82f1554bed"
	// FacultyResearchCollection resource types come from genre fields.
	FacultyResearchCollection = "b2eabd06-57f4-4d83-89d7-0f0ef30ab522"
	// OpenAccessCollection resource types come from genre fields.
	OpenAccessCollection = "13b102f7-b717-4d31-8567-e0c1b1289b1d"
)

// CCAAffiliationID is the organization identifier for explicit
// institution-affiliated creators.
const CCAAffiliationID = "01mmcf932"

// LibrariesCommunity is the parent community; membership in any of its
// child communities drops this one.
const LibrariesCommunity = "libraries"

// ArtistsBooksCommunity is the forced membership for artists' books items.
const ArtistsBooksCommunity = "artists-books"

// TextLicense pairs a text fragment with a license ID. Matching is ordered
// substring search, so longer and more specific fragments must come first.
type TextLicense struct {
	Text string `yaml:"text"`
	ID   string `yaml:"id"`
}

// Tables is the full set of lookup data for one conversion run. Construct
// with Defaults and optionally override from YAML.
type Tables struct {
	// ResourceTypes maps mods typeOfResource values to resource type IDs.
	ResourceTypes map[string]string `yaml:"resource_types"`
	// FormResourceTypes maps physicalDescription form values to resource
	// type IDs, consulted after ResourceTypes misses.
	FormResourceTypes map[string]string `yaml:"form_resource_types"`
	// GenreResourceTypes maps genre values to resource type IDs for the
	// faculty research and open access collections.
	GenreResourceTypes map[string]string `yaml:"genre_resource_types"`
	// Roles maps lowercased, space-stripped legacy role terms to role IDs.
	// Unmapped roles pass through verbatim.
	Roles map[string]string `yaml:"roles"`
	// LicenseHrefs maps accessCondition href URLs to license IDs.
	LicenseHrefs map[string]string `yaml:"license_hrefs"`
	// LicenseTexts are substring-matched against accessCondition text, in
	// order, after LicenseHrefs misses.
	LicenseTexts []TextLicense `yaml:"license_texts"`
	// Communities maps collection UUIDs to community slugs.
	Communities map[string]string `yaml:"communities"`
	// HostCommunities maps host related-item titles to community slugs.
	// All of these are children of the libraries community.
	HostCommunities map[string]string `yaml:"host_communities"`
	// ArchivesSeries maps archives series names to their allowed
	// subseries; a known series with an unknown subseries is a data error.
	ArchivesSeries map[string][]string `yaml:"archives_series"`
	// InternalNotesCollections lists collections whose notes are private
	// internal notes rather than public descriptions.
	InternalNotesCollections []string `yaml:"internal_notes_collections"`
}

// Defaults returns the compiled-in tables for the VAULT migration.
func Defaults() *Tables {
	return &Tables{
		ResourceTypes: map[string]string{
			"Event documentation":        "event",
			"Event promotion":            "event",
			"Group Field Trip":           "event",
			"Hold Harmless":              "publication",
			"Media Release":              "publication",
			"cartographic":               "publication",
			"mixed material":             "other",
			"moving image":               "image",
			"sound recording":            "video",
			"sound recording-nonmusical": "video",
			"still image":                "video",
			"text":                       "publication",
		},
		FormResourceTypes: map[string]string{
			"artists' book (object genre)": "publication-artistsbook",
			"document":                     "publication",
			"image":                        "image",
			"periodical":                   "publication-periodical",
			"sound":                        "video",
			"video":                        "video",
		},
		GenreResourceTypes: map[string]string{
			"article":           "publication-article",
			"bachelor's thesis": "bachelors-thesis",
			"book":              "publication-book",
			"book chapter":      "publication-section",
			"conference paper":  "publication-conferencepaper",
			"master's thesis":   "masters-thesis",
			"report":            "publication-report",
			"thesis":            "masters-thesis",
		},
		Roles: map[string]string{
			"academicpartner":     "artist",
			"collaborator":        "contributor",
			"curatorassistant":    "curator",
			"installationartist":  "artist",
			"instructorassistant": "teacher",
			"instructor/curator":  "curator",
			"organizerofmeeting":  "organizer",
			"painter":             "artist",
			"performanceartist":   "arti",
			"poet":                "author",
			"professor":           "teacher",
			"singersongwriter":    "artist",
			"writer":              "author",
		},
		LicenseHrefs: map[string]string{
			"http://rightsstatements.org/vocab/InC/1.0/":         "copyright",
			"http://rightsstatements.org/vocab/InC-EDU/1.0/":     "copyright",
			"http://rightsstatements.org/vocab/CNE/1.0/":         "copyright",
			"https://creativecommons.org/licenses/by/4.0/":       "cc-by-4.0",
			"https://creativecommons.org/licenses/by-nc/4.0/":    "cc-by-nc-4.0",
			"https://creativecommons.org/licenses/by-nc-nd/4.0/": "cc-by-nc-nd-4.0",
			"https://creativecommons.org/licenses/by-nc-sa/4.0/": "cc-by-nc-sa-4.0",
			"https://creativecommons.org/licenses/by-nd/4.0/":    "cc-by-nd-4.0",
			"https://creativecommons.org/licenses/by-sa/4.0/":    "cc-by-sa-4.0",
			"https://creativecommons.org/publicdomain/zero/1.0/": "cc0-1.0",
		},
		LicenseTexts: []TextLicense{
			// longer fragments first, substring matching is ordered
			{Text: "creativecommons.org/licenses/by-nc-nd/4.0", ID: "cc-by-nc-nd-4.0"},
			{Text: "creativecommons.org/licenses/by-nc-sa/4.0", ID: "cc-by-nc-sa-4.0"},
			{Text: "creativecommons.org/licenses/by-nc/4.0", ID: "cc-by-nc-4.0"},
			{Text: "creativecommons.org/licenses/by-nd/4.0", ID: "cc-by-nd-4.0"},
			{Text: "creativecommons.org/licenses/by-sa/4.0", ID: "cc-by-sa-4.0"},
			{Text: "creativecommons.org/licenses/by/4.0", ID: "cc-by-4.0"},
			{Text: "CC BY-NC-ND 4.0", ID: "cc-by-nc-nd-4.0"},
			{Text: "CC BY-NC-SA 4.0", ID: "cc-by-nc-sa-4.0"},
			{Text: "CC BY-NC 4.0", ID: "cc-by-nc-4.0"},
			{Text: "CC BY-ND 4.0", ID: "cc-by-nd-4.0"},
			{Text: "CC BY-SA 4.0", ID: "cc-by-sa-4.0"},
			{Text: "CC BY 4.0", ID: "cc-by-4.0"},
			{Text: "CC-BY-NC-ND", ID: "cc-by-nc-nd-4.0"},
			{Text: "CC-BY-NC-SA", ID: "cc-by-nc-sa-4.0"},
			{Text: "CC-BY-NC", ID: "cc-by-nc-4.0"},
			{Text: "CC-BY-ND", ID: "cc-by-nd-4.0"},
			{Text: "CC-BY-SA", ID: "cc-by-sa-4.0"},
			{Text: "CC-BY", ID: "cc-by-4.0"},
			{Text: "public domain", ID: "cc0-1.0"},
		},
		Communities: map[string]string{
			SyllabusCollection:        "syllabi",
			ArtistsBooksCollection:    ArtistsBooksCommunity,
			FacultyResearchCollection: "faculty-research",
			OpenAccessCollection:      "open-access",
			"5d95d694-a7b0-4d19-a613-7b9e2c0f6a40": LibrariesCommunity,
			"bd5b4ed9-0b04-46e5-8d40-4b6bd0c245a8": "cca-c-archives",
			"0f61a8d2-854c-4d23-8ed5-8b92bd5f2b76": "mudflats",
		},
		HostCommunities: map[string]string{
			"Design Book Review": "design-book-review",
			"Eye on the Lowrise": "eye-on-the-lowrise",
			"Glance":             "glance",
		},
		ArchivesSeries: map[string][]string{
			"I. Administrative Materials": {
				"A. Presidents' Records",
				"B. Academic Affairs",
				"C. Business Office",
			},
			"II. Faculty and Staff Materials": {
				"A. Faculty Senate",
				"B. Staff Council",
			},
			"III. Student Materials": {
				"A. Student Organizations",
				"B. Student Publications",
			},
			"IV. Campus Life": {
				"A. Events",
				"B. Exhibitions",
			},
		},
		InternalNotesCollections: []string{ArtistsBooksCollection},
	}
}

// Load reads tables from a YAML file, starting from Defaults: entries in
// the file merge over the default maps key by key, while list tables
// (LicenseTexts, InternalNotesCollections) replace the default wholesale.
func Load(path string) (*Tables, error) {
	tables := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lookup tables: %w", err)
	}
	if err := yaml.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("parsing lookup tables %s: %w", path, err)
	}
	return tables, nil
}

// Role maps a legacy role term (already lowercased and space-stripped by
// the caller) to a role ID; unmapped terms pass through verbatim.
func (t *Tables) Role(term string) string {
	if id, ok := t.Roles[term]; ok {
		return id
	}
	return term
}
