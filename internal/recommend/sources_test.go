package recommend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"shelfpick/internal/media"
)

func TestFileSourceFetchFlatList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curated-1.json")
	payload := `[
		{"title": "Persona", "author": "Ingmar Bergman", "category": "film"},
		{"title": "Kid A", "author": "Radiohead", "category": "album"},
		{"title": "Stalker", "author": "Andrei Tarkovsky"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	source, err := NewFileSource("curated-1", path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	items, err := source.Fetch(context.Background(), media.CategoryFilm)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 film items, got %d: %v", len(items), items)
	}
	for _, item := range items {
		if item.Source != "curated-1" {
			t.Fatalf("item %q missing source tag: %q", item.Title, item.Source)
		}
		if item.Category != media.CategoryFilm {
			t.Fatalf("item %q has category %q", item.Title, item.Category)
		}
	}
}

func TestFileSourceFetchByCategoryObject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curated-2.json")
	payload := `{
		"film": [{"title": "Persona", "author": "Ingmar Bergman"}],
		"album": [{"title": "Kid A", "author": "Radiohead"}]
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	source, err := NewFileSource("curated-2", path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}

	items, err := source.Fetch(context.Background(), media.CategoryAlbum)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Kid A" {
		t.Fatalf("expected Kid A, got %v", items)
	}
}

func TestFileSourceMissingFileYieldsEmpty(t *testing.T) {
	source, err := NewFileSource("curated-1", filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	items, err := source.Fetch(context.Background(), media.CategoryFilm)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %v", items)
	}
}

func TestFileSourceMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("]["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	source, err := NewFileSource("bad", path)
	if err != nil {
		t.Fatalf("NewFileSource: %v", err)
	}
	if _, err := source.Fetch(context.Background(), media.CategoryFilm); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDiscoverFileSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"curated-1.json", "curated-2.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	sources, err := DiscoverFileSources(dir)
	if err != nil {
		t.Fatalf("DiscoverFileSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Name() != "curated-1" || sources[1].Name() != "curated-2" {
		t.Fatalf("unexpected source names: %q, %q", sources[0].Name(), sources[1].Name())
	}
}
