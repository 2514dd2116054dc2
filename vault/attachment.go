package vault

import (
	"mime"
	"path/filepath"
	"sort"
	"strings"
)

// Attachment kinds found in EQUELLA exports.
const (
	KindFile     = "file"
	KindHTMLPage = "htmlpage"
	KindZip      = "zip"
	KindURL      = "url"
	KindYouTube  = "youtube"
)

// Attachment is one item attachment. File, HTML page, and zip attachments
// carry content for the file manifest; URL and video attachments are
// references that become related identifiers.
type Attachment struct {
	Type        string `json:"type"`
	UUID        string `json:"uuid"`
	Filename    string `json:"filename"`
	Folder      string `json:"folder"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ViewURL     string `json:"viewUrl"`
}

// Visual reports whether the attachment carries content that belongs in
// the file manifest.
func (a Attachment) Visual() bool {
	switch a.Type {
	case KindFile, KindHTMLPage, KindZip:
		return true
	}
	return false
}

// Reference reports whether the attachment is a link to external content.
func (a Attachment) Reference() bool {
	return a.Type == KindURL || a.Type == KindYouTube
}

// Name returns the manifest name for a visual attachment: the filename for
// files, the folder for zip bundles, a fixed page name for embedded HTML.
func (a Attachment) Name() string {
	switch a.Type {
	case KindZip:
		if a.Folder != "" {
			return a.Folder
		}
		return a.Filename
	case KindHTMLPage:
		if a.Filename != "" {
			return a.Filename
		}
		return "page.html"
	default:
		return a.Filename
	}
}

// Link returns the external URL of a reference attachment.
func (a Attachment) Link() string {
	if a.URL != "" {
		return a.URL
	}
	return a.ViewURL
}

// MIMEType guesses the attachment's MIME type from its name. Returns ""
// when the extension is unknown; unresolvable types are dropped, never
// defaulted.
func (a Attachment) MIMEType() string {
	ext := strings.ToLower(filepath.Ext(a.Name()))
	if ext == "" {
		return ""
	}
	if t, ok := extraTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	// strip parameters like "; charset=utf-8"
	if i := strings.Index(t, ";"); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// extensions the platform mime tables miss or disagree on
var extraTypes = map[string]string{
	".tif":      "image/tiff",
	".tiff":     "image/tiff",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".json":     "application/json",
	".zip":      "application/zip",
	".gz":       "application/gzip",
	".7z":       "application/x-7z-compressed",
	".indd":     "application/octet-stream",
	".psd":      "image/vnd.adobe.photoshop",
	".heic":     "image/heic",
	".m4v":      "video/mp4",
	".mov":      "video/quicktime",
	".mp3":      "audio/mpeg",
	".wav":      "audio/wav",
}

// SortPolicy ranks MIME types into buckets for manifest ordering; the most
// visual formats sort first and the first attachment after sorting becomes
// the record's default preview. The exact bucket order is policy, not
// contract, so it is data rather than code.
type SortPolicy []func(mimeType string) bool

// DefaultSortPolicy orders: TIFF, other raster images, PDF, text and
// markup, JSON, archives, everything else.
func DefaultSortPolicy() SortPolicy {
	return SortPolicy{
		func(t string) bool { return t == "image/tiff" },
		func(t string) bool { return strings.HasPrefix(t, "image/") },
		func(t string) bool { return t == "application/pdf" },
		func(t string) bool { return strings.HasPrefix(t, "text/") },
		func(t string) bool { return t == "application/json" },
		func(t string) bool {
			switch t {
			case "application/zip", "application/gzip", "application/x-7z-compressed":
				return true
			}
			return false
		},
	}
}

// rank returns the bucket index of a MIME type; unknown types sort last.
func (p SortPolicy) rank(mimeType string) int {
	if mimeType != "" {
		for i, bucket := range p {
			if bucket(mimeType) {
				return i
			}
		}
	}
	return len(p)
}

// SortVisual returns the item's visual attachments ordered by the policy's
// MIME ranking. Ties keep the export order, so the order is a deterministic
// total order and the first element is a stable default-preview choice.
func SortVisual(attachments []Attachment, policy SortPolicy) []Attachment {
	if policy == nil {
		policy = DefaultSortPolicy()
	}
	var visual []Attachment
	for _, a := range attachments {
		if a.Visual() {
			visual = append(visual, a)
		}
	}
	sort.SliceStable(visual, func(i, j int) bool {
		return policy.rank(visual[i].MIMEType()) < policy.rank(visual[j].MIMEType())
	})
	return visual
}

// References returns the item's URL and video attachments in export order.
func References(attachments []Attachment) []Attachment {
	var refs []Attachment
	for _, a := range attachments {
		if a.Reference() {
			refs = append(refs, a)
		}
	}
	return refs
}
