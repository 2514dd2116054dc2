package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadItemsSingle(t *testing.T) {
	path := writeTemp(t, "item.json", `{
		"uuid": "0c4ba1ad-6e74-4c13-8b45-9f4f07d070d5",
		"version": 2,
		"name": "Test Item",
		"metadata": "<xml><mods/></xml>",
		"collection": {"uuid": "a9d9b3fd-b8b2-4cf2-a5d8-6c0c1f3be9a2"},
		"links": {"view": "https://vault.cca.edu/items/0c4ba1ad-6e74-4c13-8b45-9f4f07d070d5/2/"}
	}`)

	items, err := ReadItems(path)
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.UUID != "0c4ba1ad-6e74-4c13-8b45-9f4f07d070d5" || item.Version != 2 {
		t.Errorf("envelope fields: got %+v", item)
	}
	if item.Name != "Test Item" {
		t.Errorf("name: got %q", item.Name)
	}
}

func TestReadItemsSearchResults(t *testing.T) {
	path := writeTemp(t, "search.json", `{
		"start": 0, "length": 2, "available": 2,
		"results": [
			{"uuid": "one", "version": 1, "name": "First"},
			{"uuid": "two", "version": 1, "name": "Second"}
		]
	}`)

	items, err := ReadItems(path)
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	if len(items) != 2 || items[0].Name != "First" || items[1].Name != "Second" {
		t.Errorf("search results: got %+v", items)
	}
}

func TestReadItemsBareXML(t *testing.T) {
	path := writeTemp(t, "metadata.xml", `<xml><mods><abstract>bare</abstract></mods></xml>`)

	items, err := ReadItems(path)
	if err != nil {
		t.Fatalf("ReadItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].UUID != "" {
		t.Errorf("bare XML should have no envelope, got UUID %q", items[0].UUID)
	}
	if items[0].Metadata == "" {
		t.Error("bare XML should become the item metadata")
	}
}

func TestReadItemsMissingFile(t *testing.T) {
	if _, err := ReadItems(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPermalink(t *testing.T) {
	item := Item{UUID: "0c4ba1ad-6e74-4c13-8b45-9f4f07d070d5", Version: 2}
	want := "https://vault.cca.edu/items/0c4ba1ad-6e74-4c13-8b45-9f4f07d070d5/2/"
	if got := item.Permalink(); got != want {
		t.Errorf("Permalink: got %q, want %q", got, want)
	}

	if got := (Item{}).Permalink(); got != "" {
		t.Errorf("envelope-less permalink: got %q", got)
	}
}
