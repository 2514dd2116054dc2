package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cca-libraries/vault-migrate/edtf"
	"github.com/cca-libraries/vault-migrate/invenio"
	"github.com/cca-libraries/vault-migrate/lookup"
	"github.com/cca-libraries/vault-migrate/subjects"
)

// title returns the record title plus, for artists' books, the author half
// of the combined "Title / Author" display name.
func (c *conversion) title() (title, bookAuthor string) {
	title = c.item.Name
	if title == "" {
		title = "Untitled"
	}

	if c.isArtistsBook() {
		// artists' books store "Title / Author" in one field
		if idx := strings.Index(title, " / "); idx >= 0 {
			return title[:idx], title[idx+3:]
		}
	}
	return title, ""
}

// isArtistsBook reports whether the item came from the artists' books
// collection, which packs "Title / Author" into the display name.
func (c *conversion) isArtistsBook() bool {
	return c.item.Collection.UUID == lookup.ArtistsBooksCollection
}

// additionalTitles collects subtitles and the titles of every titleInfo
// block after the first, typed by the block's type attribute.
func (c *conversion) additionalTitles() []invenio.Title {
	titles := []invenio.Title{}
	for idx, titleInfo := range c.mods.FindAll("titleInfo") {
		for _, subtitle := range titleInfo.AllText("subTitle") {
			titles = append(titles, invenio.Title{Title: subtitle, Type: invenio.TypeRef{ID: "subtitle"}})
		}
		if idx == 0 {
			continue
		}
		for _, title := range titleInfo.AllText("title") {
			var id string
			switch titleInfo.Attr("type") {
			case "alternative":
				id = "alternative-title"
			case "translated":
				id = "translated-title"
			default:
				id = "other"
			}
			titles = append(titles, invenio.Title{Title: title, Type: invenio.TypeRef{ID: id}})
		}
	}
	return titles
}

// descriptions derives the additional descriptions: secondary abstracts,
// notes, and series information. For collections whose notes are private,
// the notes divert to internal_notes instead of the public document.
func (c *conversion) descriptions() ([]invenio.Description, []invenio.InternalNote) {
	descriptions := []invenio.Description{}
	var internal []invenio.InternalNote

	for _, abstract := range c.abstracts[1:] {
		descriptions = append(descriptions, invenio.Description{
			Type:        invenio.DescriptionType{ID: "abstract", Title: invenio.LocalizedTitle{En: "Abstract"}},
			Description: abstract,
		})
	}

	privateNotes := c.notesArePrivate()
	for _, wrapper := range c.mods.FindAll("noteWrapper") {
		for _, note := range wrapper.FindAll("note") {
			text := note.Text()
			if text == "" {
				continue
			}
			// the note's type attribute is context the target schema has
			// no slot for, so it is prefixed onto the text
			if noteType := note.Attr("type"); noteType != "" {
				text = capitalize(noteType) + ": " + text
			}
			if privateNotes {
				internal = append(internal, invenio.InternalNote{Note: text})
				continue
			}
			descriptions = append(descriptions, invenio.Description{
				Type:        invenio.DescriptionType{ID: "other", Title: invenio.LocalizedTitle{En: "Other"}},
				Description: text,
			})
		}
	}

	for _, related := range c.mods.FindAll("relatedItem") {
		if related.Attr("type") != "series" {
			continue
		}
		for _, title := range related.AllText("titleInfo", "title") {
			descriptions = append(descriptions, invenio.Description{
				Type:        invenio.DescriptionType{ID: "series-information", Title: invenio.LocalizedTitle{En: "Series information"}},
				Description: title,
			})
		}
	}

	return descriptions, internal
}

// notesArePrivate reports whether this item's collection diverts notes to
// internal_notes.
func (c *conversion) notesArePrivate() bool {
	for _, uuid := range c.m.tables.InternalNotesCollections {
		if uuid == c.item.Collection.UUID {
			return true
		}
	}
	return false
}

// dates derives the additional (non-publication) dates: captured dates as
// "collected" and the single dateOther as "other". Unparseable dates are
// soft misses and are skipped.
func (c *conversion) dates() []invenio.Date {
	dates := []invenio.Date{}

	for _, origin := range c.mods.FindAll("origininfo") {
		for _, captured := range origin.AllText("dateCaptured") {
			if normalized := edtf.Normalize(captured); normalized != "" {
				dates = append(dates, invenio.Date{
					Date:        normalized,
					Type:        invenio.TypeRef{ID: "collected"},
					Description: "date captured",
				})
			}
		}
	}

	// there is always at most one dateOtherWrapper/dateOther
	wrapper := c.mods.FindFirst("origininfo", "dateOtherWrapper")
	other := wrapper.FindFirst("dateOther")
	if normalized := edtf.Normalize(other.Text()); normalized != "" {
		date := invenio.Date{Date: normalized, Type: invenio.TypeRef{ID: "other"}}
		if otherType := other.Attr("type"); otherType != "" {
			date.Description = capitalize(otherType)
		}
		dates = append(dates, date)
	} else if wrapper != nil {
		// empty dateOther falls back to the wrapper's point range
		if r := edtf.NormalizeRange(wrapper.FirstText("pointStart"), wrapper.FirstText("pointEnd")); r != "" {
			dates = append(dates, invenio.Date{Date: r, Type: invenio.TypeRef{ID: "other"}})
		}
	}

	return dates
}

// publicationDate derives the publication date along the documented
// priority chain: explicit dateCreated, then a pointStart/pointEnd range,
// then a semester name, then a related-item part date, and finally the
// envelope's own creation timestamp. Within each category the last value
// found wins when multiple origininfo blocks are present; that is a
// documented quirk of the legacy data, not a bug.
func (c *conversion) publicationDate() string {
	var created, pointRange, semester string

	for _, origin := range c.mods.FindAll("origininfo") {
		for _, wrapper := range origin.FindAll("dateCreatedWrapper") {
			for _, date := range wrapper.AllText("dateCreated") {
				created = date
			}
			start := wrapper.FirstText("pointStart")
			end := wrapper.FirstText("pointEnd")
			if start != "" && end != "" {
				if r := edtf.NormalizeRange(start, end); r != "" {
					pointRange = r
				}
			}
		}
		if s := origin.FirstText("semesterCreated"); s != "" {
			semester = s
		}
	}

	if created != "" {
		if normalized := edtf.Normalize(created); normalized != "" {
			return normalized
		}
	}
	if pointRange != "" {
		return pointRange
	}
	if semester != "" {
		if normalized := edtf.Normalize(semester); normalized != "" {
			return normalized
		}
	}
	for _, related := range c.mods.FindAll("relatedItem") {
		if date := related.FirstText("part", "date"); date != "" {
			if normalized := edtf.Normalize(date); normalized != "" {
				return normalized
			}
		}
	}
	return edtf.Normalize(c.item.CreatedDate)
}

// publisher resolves the publisher. Design Book Review articles have a
// publisher that depends on the issue number; everything else uses the
// first non-empty originInfo/publisher.
func (c *conversion) publisher() string {
	for _, related := range c.mods.FindAll("relatedItem") {
		if related.FirstText("titleInfo", "title") != "Design Book Review" {
			continue
		}
		number := related.FirstText("part", "detail", "number")
		if number == "" {
			continue
		}
		// double issues look like 37/38, the first number decides
		if len(number) > 2 {
			number = number[:2]
		}
		issue, err := strconv.Atoi(number)
		if err != nil {
			continue
		}
		switch {
		case issue < 19:
			return "Design Book Review"
		case issue < 36:
			return "MIT Press"
		case issue < 39:
			return "Design Book Review"
		default:
			return "California College of the Arts"
		}
	}

	for _, origin := range c.mods.FindAll("originInfo") {
		for _, publisher := range origin.AllText("publisher") {
			return publisher
		}
	}
	return ""
}

// resourceType walks the documented priority chain: syllabus collection,
// genre lookup for the faculty research and open access collections, the
// first recognized typeOfResource, the physical-description form, and
// finally the publication default.
func (c *conversion) resourceType() invenio.TypeRef {
	collection := c.item.Collection.UUID
	if collection == lookup.SyllabusCollection {
		return invenio.TypeRef{ID: "publication-syllabus"}
	}

	if collection == lookup.FacultyResearchCollection || collection == lookup.OpenAccessCollection {
		for _, wrapper := range c.mods.FindAll("genreWrapper") {
			for _, genre := range wrapper.AllText("genre") {
				if id, ok := c.m.tables.GenreResourceTypes[strings.ToLower(genre)]; ok {
					return invenio.TypeRef{ID: id}
				}
			}
		}
	}

	if wrapper := c.mods.FindFirst("typeOfResourceWrapper"); wrapper != nil {
		for _, value := range wrapper.AllText("typeOfResource") {
			if id, ok := c.m.tables.ResourceTypes[value]; ok {
				return invenio.TypeRef{ID: id}
			}
			break // only the first value counts
		}
	}

	for _, form := range c.mods.AllText("physicalDescription", "formBroad") {
		if id, ok := c.m.tables.FormResourceTypes[strings.ToLower(form)]; ok {
			return invenio.TypeRef{ID: id}
		}
	}

	return invenio.TypeRef{ID: "publication"}
}

// rights resolves the license. Exactly one accessCondition node is
// expected; its href attribute wins over substring matches in its text,
// and everything defaults to plain copyright.
func (c *conversion) rights() []invenio.TypeRef {
	condition := c.mods.FindFirst("accessCondition")
	if condition != nil {
		if href := condition.Attr("href"); href != "" {
			if id, ok := c.m.tables.LicenseHrefs[href]; ok {
				return []invenio.TypeRef{{ID: id}}
			}
		}
		text := condition.Text()
		for _, candidate := range c.m.tables.LicenseTexts {
			if strings.Contains(text, candidate.Text) {
				return []invenio.TypeRef{{ID: candidate.ID}}
			}
		}
	}
	return []invenio.TypeRef{{ID: "copyright"}}
}

// formats derives the sorted MIME type set of the item's visual
// attachments. Unresolvable extensions are dropped.
func (c *conversion) formats() []string {
	seen := make(map[string]bool)
	for _, a := range c.visual {
		if t := a.MIMEType(); t != "" {
			seen[t] = true
		}
	}
	formats := make([]string, 0, len(seen))
	for t := range seen {
		formats = append(formats, t)
	}
	sort.Strings(formats)
	return formats
}

// sizes passes through the physical-description extent.
func (c *conversion) sizes() []string {
	sizes := []string{}
	if extent := c.mods.FirstText("physicalDescription", "extent"); extent != "" {
		sizes = append(sizes, extent)
	}
	return sizes
}

// subjects extracts and resolves the item's subject set.
func (c *conversion) subjects() ([]invenio.SubjectRef, error) {
	found := subjects.Find(c.tree)
	refs := make([]invenio.SubjectRef, 0, len(found))
	for _, s := range found {
		ref, err := s.Resolve(c.m.cfg.Subjects)
		if err != nil {
			return nil, err
		}
		refs = append(refs, invenio.SubjectRef{ID: ref.ID, Subject: ref.Subject})
	}
	return refs, nil
}

// customFields populates the cca:course custom field for course work from
// local/courseInfo.
func (c *conversion) customFields() map[string]any {
	fields := map[string]any{}
	course := c.local.FindFirst("courseInfo")
	if course == nil {
		return fields
	}
	info := map[string]any{}
	set := func(key, value string) {
		if value != "" {
			info[key] = value
		}
	}
	set("department", course.FirstText("department"))
	set("section", course.FirstText("section"))
	set("term", course.FirstText("semester"))
	set("title", course.FirstText("course"))
	set("instructors_string", course.FirstText("faculty"))
	if len(info) > 0 {
		fields["cca:course"] = info
	}
	return fields
}

// files builds the manifest: visual attachments in visual-priority order,
// with the first one as the default preview.
func (c *conversion) files() invenio.Files {
	files := invenio.Files{Enabled: len(c.visual) > 0, Order: []string{}}
	for _, a := range c.visual {
		files.Order = append(files.Order, a.Name())
	}
	if len(files.Order) > 0 {
		files.DefaultPreview = files.Order[0]
	}
	return files
}

// checkArchivesSeries validates the archives series/subseries pair. A known
// series without a recognized subseries is a data defect: fatal in strict
// mode, a logged warning otherwise.
func (c *conversion) checkArchivesSeries() error {
	series := c.local.FirstText("archivesWrapper", "series")
	if series == "" {
		return nil
	}
	allowed, known := c.m.tables.ArchivesSeries[series]
	if !known {
		c.m.log.Warn("unrecognized archives series", "item", c.item.UUID, "series", series)
		return nil
	}
	subseries := c.local.FirstText("archivesWrapper", "subseries")
	for _, candidate := range allowed {
		if candidate == subseries {
			return nil
		}
	}
	if c.m.cfg.Strict {
		return fmt.Errorf("%w: series %q subseries %q (item %s)", ErrMissingSubseries, series, subseries, c.item.UUID)
	}
	c.m.log.Warn("archives series without a recognized subseries",
		"item", c.item.UUID, "series", series, "subseries", subseries)
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
