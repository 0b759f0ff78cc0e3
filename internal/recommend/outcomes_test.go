package recommend

import (
	"context"
	"errors"
	"testing"

	"shelfpick/internal/media"
)

type fakeChecker struct {
	available map[string]bool
	failures  map[string]error
}

func (c fakeChecker) CheckAvailability(_ context.Context, item media.Item) (Availability, error) {
	if err, ok := c.failures[item.Title]; ok {
		return Availability{}, err
	}
	return Availability{Available: c.available[item.Title]}, nil
}

func TestRecordOutcomeUnavailableBlacklists(t *testing.T) {
	engine := newTestEngine(t, nil)
	item := film("Tenet", "Christopher Nolan", "curated-1")

	if err := engine.RecordOutcome(item, OutcomeUnavailable); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	store, err := engine.blacklists.ForCategory(media.CategoryFilm)
	if err != nil {
		t.Fatalf("ForCategory: %v", err)
	}
	if !store.Contains(item) {
		t.Fatal("unavailable item missing from blacklist")
	}
	if got := engine.BlacklistStats().Total; got != 1 {
		t.Fatalf("expected 1 blacklisted item, got %d", got)
	}
}

func TestRecordOutcomeAvailableClearsStaleEntry(t *testing.T) {
	engine := newTestEngine(t, nil)
	item := film("Tenet", "Christopher Nolan", "curated-1")

	if err := engine.RecordOutcome(item, OutcomeUnavailable); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if err := engine.RecordOutcome(item, OutcomeAvailable); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}

	store, err := engine.blacklists.ForCategory(media.CategoryFilm)
	if err != nil {
		t.Fatalf("ForCategory: %v", err)
	}
	if store.Contains(item) {
		t.Fatal("stale blacklist entry survived a confirmed-available outcome")
	}
}

func TestRecordOutcomeUnknownLeavesStateUntouched(t *testing.T) {
	engine := newTestEngine(t, nil)
	item := film("Tenet", "Christopher Nolan", "curated-1")

	if err := engine.RecordOutcome(item, OutcomeUnknown); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if got := engine.BlacklistStats().Total; got != 0 {
		t.Fatalf("unknown outcome mutated the blacklist: %d entries", got)
	}
}

func TestRecordArtistOutcome(t *testing.T) {
	engine := newTestEngine(t, nil)

	if err := engine.RecordArtistOutcome("Radiohead", 42, false); err != nil {
		t.Fatalf("RecordArtistOutcome: %v", err)
	}
	if !engine.artists.Contains("Radiohead") {
		t.Fatal("artist with no new work missing from exclusion list")
	}

	if err := engine.RecordArtistOutcome("Radiohead", 42, true); err != nil {
		t.Fatalf("RecordArtistOutcome: %v", err)
	}
	if engine.artists.Contains("Radiohead") {
		t.Fatal("artist still excluded after new work was found")
	}
	if _, ok := engine.artists.Record("Radiohead"); ok {
		t.Fatal("record survived a new-work outcome; expected deletion, not refresh")
	}
}

func TestRecordArtistOutcomeRejectsEmptyName(t *testing.T) {
	engine := newTestEngine(t, nil)
	if err := engine.RecordArtistOutcome("  ", 1, false); err == nil {
		t.Fatal("expected error for empty artist name")
	}
}

func TestVerifyRecordsOutcomesAndSurfacesFailures(t *testing.T) {
	checkErr := errors.New("catalog timeout")
	engine := newTestEngine(t, func(d *Deps) {
		d.Checker = fakeChecker{
			available: map[string]bool{"Persona": true, "Tenet": false},
			failures:  map[string]error{"Stalker": checkErr},
		}
	})

	items := []media.Item{
		film("Persona", "Ingmar Bergman", "curated-1"),
		film("Tenet", "Christopher Nolan", "curated-1"),
		film("Stalker", "Andrei Tarkovsky", "curated-1"),
	}

	available, failures, err := engine.Verify(context.Background(), items)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(available) != 1 || available[0].Title != "Persona" {
		t.Fatalf("expected Persona available, got %v", available)
	}
	if len(failures) != 1 || !errors.Is(failures[0].Err, checkErr) {
		t.Fatalf("expected Stalker failure surfaced, got %v", failures)
	}

	store, storeErr := engine.blacklists.ForCategory(media.CategoryFilm)
	if storeErr != nil {
		t.Fatalf("ForCategory: %v", storeErr)
	}
	if !store.Contains(items[1]) {
		t.Fatal("unavailable item not blacklisted")
	}
	if store.Contains(items[2]) {
		t.Fatal("failed check must not blacklist the item")
	}
}

func TestVerifyWithoutCheckerFails(t *testing.T) {
	engine := newTestEngine(t, nil)
	if _, _, err := engine.Verify(context.Background(), nil); err == nil {
		t.Fatal("expected error without a configured checker")
	}
}

func TestFilterTopArtists(t *testing.T) {
	engine := newTestEngine(t, nil)
	if err := engine.RecordArtistOutcome("Portishead", 17, false); err != nil {
		t.Fatalf("RecordArtistOutcome: %v", err)
	}

	counts := []ArtistCount{
		{ArtistName: "Tool", SongCount: 9},
		{ArtistName: "Radiohead", SongCount: 42},
		{ArtistName: "Portishead", SongCount: 17},
		{ArtistName: "David Bowie", SongCount: 31},
	}

	top := engine.FilterTopArtists(counts, 2, 10)
	if len(top) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(top))
	}
	if top[0].ArtistName != "Radiohead" || top[1].ArtistName != "David Bowie" {
		t.Fatalf("expected Radiohead then David Bowie, got %v", top)
	}

	// The excluded artist consumes one of the inspected slots.
	limited := engine.FilterTopArtists(counts, 3, 3)
	if len(limited) != 2 {
		t.Fatalf("expected 2 artists within the inspection limit, got %v", limited)
	}
}

func TestAcceptIsNotPersisted(t *testing.T) {
	engine := newTestEngine(t, nil)
	item := film("Persona", "Ingmar Bergman", "curated-1")

	if err := engine.Accept(item); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	// Accepted items are not re-offered in this run.
	selection, err := engine.Select(media.CategoryFilm, []media.Item{item}, Quota{Total: 1})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selection) != 0 {
		t.Fatalf("accepted item re-offered: %v", selection)
	}

	// But nothing durable was written for it.
	if engine.state.IsRejected(item) {
		t.Fatal("acceptance must not mark the item rejected")
	}
	if got := engine.BlacklistStats().Total; got != 0 {
		t.Fatalf("acceptance mutated the blacklist: %d entries", got)
	}
}
