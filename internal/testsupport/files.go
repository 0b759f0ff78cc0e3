package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"shelfpick/internal/media"
)

// WriteCandidates writes a candidate list file the way a curated source is
// laid out on disk.
func WriteCandidates(t testing.TB, path string, items []media.Item) {
	t.Helper()

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		t.Fatalf("marshal candidates: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteTrack creates a tiny placeholder file, used to lay out archive folder
// fixtures.
func WriteTrack(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte{0x42}, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
