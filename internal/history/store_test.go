package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shelfpick/internal/media"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListCycles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	items := []media.Item{
		{Title: "Persona", Author: "Ingmar Bergman", Category: media.CategoryFilm, Source: "curated-1"},
		{Title: "Stalker", Author: "Andrei Tarkovsky", Category: media.CategoryFilm, Source: "curated-2"},
	}

	id, err := store.RecordCycle(ctx, media.CategoryFilm, 5, items)
	if err != nil {
		t.Fatalf("RecordCycle: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated cycle id")
	}

	cycles, err := store.RecentCycles(ctx, media.CategoryFilm, 10)
	if err != nil {
		t.Fatalf("RecentCycles: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d", len(cycles))
	}
	cycle := cycles[0]
	if cycle.ID != id || cycle.Requested != 5 || cycle.Selected != 2 {
		t.Fatalf("unexpected cycle: %+v", cycle)
	}

	recorded, err := store.CycleItems(ctx, id)
	if err != nil {
		t.Fatalf("CycleItems: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("expected 2 items, got %d", len(recorded))
	}
	if recorded[0].Title != "Persona" || recorded[0].Disposition != DispositionOffered {
		t.Fatalf("unexpected first item: %+v", recorded[0])
	}
}

func TestRecentCyclesFiltersByCategory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.RecordCycle(ctx, media.CategoryFilm, 3, nil); err != nil {
		t.Fatalf("RecordCycle: %v", err)
	}
	if _, err := store.RecordCycle(ctx, media.CategoryAlbum, 3, nil); err != nil {
		t.Fatalf("RecordCycle: %v", err)
	}

	albums, err := store.RecentCycles(ctx, media.CategoryAlbum, 10)
	if err != nil {
		t.Fatalf("RecentCycles: %v", err)
	}
	if len(albums) != 1 || albums[0].Category != media.CategoryAlbum {
		t.Fatalf("expected one album cycle, got %+v", albums)
	}

	all, err := store.RecentCycles(ctx, "", 10)
	if err != nil {
		t.Fatalf("RecentCycles: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 cycles across categories, got %d", len(all))
	}
}

func TestSetDisposition(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	items := []media.Item{
		{Title: "Kid A", Author: "Radiohead", Category: media.CategoryAlbum, Source: "curated-1"},
	}
	id, err := store.RecordCycle(ctx, media.CategoryAlbum, 1, items)
	if err != nil {
		t.Fatalf("RecordCycle: %v", err)
	}

	if err := store.SetDisposition(ctx, id, "kid a", DispositionAccepted); err != nil {
		t.Fatalf("SetDisposition: %v", err)
	}

	recorded, err := store.CycleItems(ctx, id)
	if err != nil {
		t.Fatalf("CycleItems: %v", err)
	}
	if recorded[0].Disposition != DispositionAccepted {
		t.Fatalf("disposition not updated: %+v", recorded[0])
	}

	if err := store.SetDisposition(ctx, id, "OK Computer", DispositionRejected); err == nil {
		t.Fatal("expected error for unknown title")
	}
	if err := store.SetDisposition(ctx, id, "Kid A", Disposition("shelved")); err == nil {
		t.Fatal("expected error for unknown disposition")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.RecordCycle(ctx, media.CategoryBook, 2, nil); err != nil {
		t.Fatalf("RecordCycle: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	cycles, err := reopened.RecentCycles(ctx, media.CategoryBook, 10)
	if err != nil {
		t.Fatalf("RecentCycles: %v", err)
	}
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle after reopen, got %d", len(cycles))
	}
}

func TestPruneOlderThan(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.RecordCycle(ctx, media.CategoryFilm, 1, nil)
	if err != nil {
		t.Fatalf("RecordCycle: %v", err)
	}

	// Fresh cycles survive a generous cutoff.
	removed, err := store.PruneOlderThan(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected nothing pruned, got %d", removed)
	}

	// A zero cutoff removes everything recorded before now.
	removed, err = store.PruneOlderThan(ctx, 0)
	if err != nil {
		t.Fatalf("PruneOlderThan: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 cycle pruned, got %d", removed)
	}

	if _, err := store.CycleItems(ctx, id); err != nil {
		t.Fatalf("CycleItems after prune: %v", err)
	}
}
