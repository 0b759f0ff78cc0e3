package archive

import (
	"os"
	"path/filepath"
	"testing"

	"shelfpick/internal/logging"
)

func writeTrack(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestScanArtistsOrdersBySongCount(t *testing.T) {
	root := t.TempDir()
	writeTrack(t, filepath.Join(root, "Radiohead", "In Rainbows", "01 15 Step.flac"))
	writeTrack(t, filepath.Join(root, "Radiohead", "In Rainbows", "02 Bodysnatchers.flac"))
	writeTrack(t, filepath.Join(root, "Radiohead", "Kid A", "01 Everything.flac"))
	writeTrack(t, filepath.Join(root, "Portishead", "Dummy", "01 Mysterons.flac"))
	writeTrack(t, filepath.Join(root, "stray file.txt"))
	if err := os.MkdirAll(filepath.Join(root, "Empty Artist"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	tallies, err := ScanArtists(root, logging.NewNop())
	if err != nil {
		t.Fatalf("ScanArtists: %v", err)
	}
	if len(tallies) != 2 {
		t.Fatalf("expected 2 artists, got %v", tallies)
	}
	if tallies[0].Name != "Radiohead" || tallies[0].Songs != 3 {
		t.Fatalf("unexpected first tally: %+v", tallies[0])
	}
	if tallies[1].Name != "Portishead" || tallies[1].Songs != 1 {
		t.Fatalf("unexpected second tally: %+v", tallies[1])
	}
}

func TestScanArtistsMissingRoot(t *testing.T) {
	tallies, err := ScanArtists(filepath.Join(t.TempDir(), "absent"), logging.NewNop())
	if err != nil {
		t.Fatalf("ScanArtists: %v", err)
	}
	if len(tallies) != 0 {
		t.Fatalf("expected no tallies, got %v", tallies)
	}
}
