package xmltree

import (
	"strings"
	"testing"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<xml>
  <mods>
    <titleInfo>
      <title>Annual Report</title>
      <subTitle>1998 edition</subTitle>
    </titleInfo>
    <titleInfo type="alternative">
      <title>Yearly Report</title>
    </titleInfo>
    <origininfo>
      <dateCreatedWrapper>
        <dateCreated>1998</dateCreated>
      </dateCreatedWrapper>
    </origininfo>
    <originInfo>
      <publisher>California College of the Arts</publisher>
    </originInfo>
    <abstract>  trimmed text  </abstract>
    <empty/>
  </mods>
</xml>`

func TestParse(t *testing.T) {
	root, err := ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if root.Name != "xml" {
		t.Fatalf("root: got %q, want %q", root.Name, "xml")
	}

	if got := root.FirstText("mods", "titleInfo", "title"); got != "Annual Report" {
		t.Errorf("FirstText title: got %q", got)
	}
	if got := root.FirstText("mods", "abstract"); got != "trimmed text" {
		t.Errorf("text not trimmed: got %q", got)
	}
	if got := root.FirstText("mods", "empty"); got != "" {
		t.Errorf("empty element text: got %q", got)
	}
}

func TestFindAll(t *testing.T) {
	root, err := ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	infos := root.FindAll("mods", "titleInfo")
	if len(infos) != 2 {
		t.Fatalf("expected 2 titleInfo nodes, got %d", len(infos))
	}
	if got := infos[1].Attr("type"); got != "alternative" {
		t.Errorf("attr: got %q", got)
	}
	if got := infos[0].Attr("type"); got != "" {
		t.Errorf("missing attr: got %q", got)
	}

	titles := root.AllText("mods", "titleInfo", "title")
	if len(titles) != 2 || titles[0] != "Annual Report" || titles[1] != "Yearly Report" {
		t.Errorf("AllText: got %v", titles)
	}
}

// origininfo and originInfo are distinct elements in the legacy data and
// must never be conflated.
func TestCaseSensitiveNames(t *testing.T) {
	root, err := ParseString(doc)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if got := root.FirstText("mods", "origininfo", "dateCreatedWrapper", "dateCreated"); got != "1998" {
		t.Errorf("origininfo date: got %q", got)
	}
	if got := root.FirstText("mods", "originInfo", "publisher"); got != "California College of the Arts" {
		t.Errorf("originInfo publisher: got %q", got)
	}
	if nodes := root.FindAll("mods", "origininfo", "publisher"); nodes != nil {
		t.Errorf("lowercase origininfo should have no publisher, got %d nodes", len(nodes))
	}
}

func TestNilSafety(t *testing.T) {
	var n *Node
	if n.Text() != "" || n.Attr("x") != "" || n.FirstText("a", "b") != "" {
		t.Error("nil node accessors should return zero values")
	}
	if nodes := n.FindAll("a"); nodes != nil {
		t.Errorf("nil node FindAll: got %v", nodes)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseString(""); err == nil {
		t.Error("expected error for empty document")
	}
	if _, err := ParseString("<a><b></a>"); err == nil {
		t.Error("expected error for mismatched tags")
	}
}

func TestParseReader(t *testing.T) {
	root, err := Parse(strings.NewReader(`<xml><local><viewLevel>public</viewLevel></local></xml>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := root.FirstText("local", "viewLevel"); got != "public" {
		t.Errorf("viewLevel: got %q", got)
	}
}
