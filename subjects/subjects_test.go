package subjects

import (
	"testing"

	"github.com/cca-libraries/vault-migrate/xmltree"
)

const metadata = `<xml>
  <mods>
    <subject authority="lcsh">
      <topic>Printmaking</topic>
      <topic>Printmaking</topic>
    </subject>
    <subject>
      <topicCona>Ceramics</topicCona>
      <geographic authority="lc">Oakland (Calif.)</geographic>
      <name/>
      <temporal>1950s</temporal>
    </subject>
    <genreWrapper>
      <genre>artists' books</genre>
    </genreWrapper>
    <physicalDescription>
      <formBroad>print</formBroad>
    </physicalDescription>
  </mods>
</xml>`

func TestFind(t *testing.T) {
	tree, err := xmltree.ParseString(metadata)
	if err != nil {
		t.Fatalf("parsing metadata: %v", err)
	}

	found := Find(tree)
	want := []Subject{
		{Type: "Genre", Value: "artists' books"},
		{Type: "Genre", Value: "print"},
		{Type: "Geographic", Value: "Oakland (Calif.)", Authority: "LC"},
		{Type: "Temporal", Value: "1950s"},
		{Type: "Topic", Value: "Ceramics"},
		{Type: "Topic", Value: "Printmaking", Authority: "LCSH"},
	}
	if len(found) != len(want) {
		t.Fatalf("expected %d subjects, got %d: %v", len(want), len(found), found)
	}
	for i, s := range found {
		if s != want[i] {
			t.Errorf("subject %d: got %+v, want %+v", i, s, want[i])
		}
	}
}

func TestFindEmptyTree(t *testing.T) {
	tree, err := xmltree.ParseString("<xml/>")
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if found := Find(tree); len(found) != 0 {
		t.Errorf("expected no subjects, got %v", found)
	}
}

func TestResolve(t *testing.T) {
	m := Map{"printmaking": "b74a4c17-a633-5b57-99de-a9b4aa1cf8f0"}

	ref, err := New("topic", "Printmaking", "LCSH").Resolve(m)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ref.ID != "b74a4c17-a633-5b57-99de-a9b4aa1cf8f0" || ref.Subject != "" {
		t.Errorf("map hit: got %+v", ref)
	}

	// misses stay free keywords
	ref, err = New("topic", "Unmapped term", "").Resolve(m)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ref.Subject != "Unmapped term" || ref.ID != "" {
		t.Errorf("map miss: got %+v", ref)
	}

	// temporal subjects are their own IDs, no map needed
	ref, err = New("temporal", "1950s", "").Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve temporal: %v", err)
	}
	if ref.ID != "1950s" {
		t.Errorf("temporal: got %+v", ref)
	}

	// anything else without a map is a configuration error
	if _, err := New("topic", "Printmaking", "").Resolve(nil); err == nil {
		t.Error("expected error resolving without a map")
	}
}

func TestSubjectIdentity(t *testing.T) {
	// same term under two authorities is two subjects
	a := New("topic", "Printmaking", "LCSH")
	b := New("topic", "Printmaking", "local")
	if a == b {
		t.Error("subjects with different authorities should differ")
	}
	if New("TOPIC", "x", "lcsh") != New("topic", "x", "LCSH") {
		t.Error("type and authority should normalize for comparison")
	}
}

func TestString(t *testing.T) {
	if got := New("topic", "Printmaking", "lcsh").String(); got != "Topic: Printmaking (LCSH)" {
		t.Errorf("String: got %q", got)
	}
	if got := New("genre", "print", "").String(); got != "Genre: print" {
		t.Errorf("String without authority: got %q", got)
	}
}
