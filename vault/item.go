// Package vault models legacy EQUELLA item exports: the JSON envelope, its
// attachment list, and the quirks of both. The embedded XML metadata string
// is the authoritative metadata source; envelope fields are secondary.
package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Item is one legacy repository record as exported from EQUELLA.
type Item struct {
	UUID        string       `json:"uuid"`
	Version     int          `json:"version"`
	Name        string       `json:"name"`
	Metadata    string       `json:"metadata"`
	CreatedDate string       `json:"createdDate"`
	Attachments []Attachment `json:"attachments"`
	Collection  Collection   `json:"collection"`
	Owner       Owner        `json:"owner"`
	Collabs     []Owner      `json:"collaborators"`
	Links       Links        `json:"links"`
}

// Collection identifies the EQUELLA collection an item belongs to.
type Collection struct {
	UUID string `json:"uuid"`
}

// Owner is an item owner or collaborator reference.
type Owner struct {
	ID string `json:"id"`
}

// Links are the envelope's navigation URLs.
type Links struct {
	View string `json:"view"`
	Self string `json:"self"`
}

// PermalinkBase is the versioned public URL prefix for legacy items.
const PermalinkBase = "https://vault.cca.edu/items"

// Permalink returns the versioned public URL for the item, or "" when the
// envelope lacks a UUID or version.
func (it Item) Permalink() string {
	if it.UUID == "" || it.Version == 0 {
		return ""
	}
	return fmt.Sprintf("%s/%s/%d/", PermalinkBase, it.UUID, it.Version)
}

// searchResults is the envelope of an EQUELLA search API response.
type searchResults struct {
	Results []Item `json:"results"`
}

// ReadItems loads items from a file that may be a single item JSON, an
// EQUELLA search-results JSON, or a bare XML metadata document (which
// becomes an envelope-less item).
func ReadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "<") {
		return []Item{{Metadata: trimmed}}, nil
	}

	var search searchResults
	if err := json.Unmarshal(data, &search); err == nil && len(search.Results) > 0 {
		return search.Results, nil
	}

	var item Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []Item{item}, nil
}
