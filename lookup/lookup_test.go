package lookup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	tables := Defaults()

	if got := tables.ResourceTypes["text"]; got != "publication" {
		t.Errorf("ResourceTypes[text]: got %q", got)
	}
	if got := tables.Communities[ArtistsBooksCollection]; got != ArtistsBooksCommunity {
		t.Errorf("Communities[artists books]: got %q", got)
	}
	if got := tables.HostCommunities["Design Book Review"]; got != "design-book-review" {
		t.Errorf("HostCommunities[DBR]: got %q", got)
	}
	if len(tables.LicenseTexts) == 0 {
		t.Fatal("expected license text fragments")
	}
	// ordered matching requires the ND fragment before the bare BY one
	var ndIdx, byIdx int
	for i, lt := range tables.LicenseTexts {
		switch lt.Text {
		case "CC BY-NC-ND 4.0":
			ndIdx = i
		case "CC BY 4.0":
			byIdx = i
		}
	}
	if ndIdx > byIdx {
		t.Error("license text fragments must match longest-first")
	}
}

func TestRole(t *testing.T) {
	tables := Defaults()
	tests := []struct {
		term string
		want string
	}{
		{"painter", "artist"},
		{"professor", "teacher"},
		{"instructor/curator", "curator"},
		// this mapping is a typo in the original data load, preserved so
		// records round-trip identically
		{"performanceartist", "arti"},
		// unmapped terms pass through
		{"author", "author"},
		{"bookjacketdesigner", "bookjacketdesigner"},
	}
	for _, tt := range tests {
		if got := tables.Role(tt.term); got != tt.want {
			t.Errorf("Role(%q) = %q, want %q", tt.term, got, tt.want)
		}
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	override := `roles:
  painter: painter-id
communities:
  some-uuid: some-community
`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// file entries merge over the default maps key by key
	if got := tables.Role("painter"); got != "painter-id" {
		t.Errorf("overridden role: got %q", got)
	}
	if got := tables.Role("professor"); got != "teacher" {
		t.Errorf("unmentioned default entries should survive: got %q", got)
	}
	if got := tables.Communities["some-uuid"]; got != "some-community" {
		t.Errorf("overridden community: got %q", got)
	}
	// untouched tables keep their defaults
	if got := tables.ResourceTypes["text"]; got != "publication" {
		t.Errorf("default resource types lost: got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
