package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"shelfpick/internal/logging"
	"shelfpick/internal/media"
)

// Outcome is the result of an external availability check for one item.
type Outcome int

const (
	// OutcomeUnknown means the check failed or was not performed; the item
	// is neither blacklisted nor selected.
	OutcomeUnknown Outcome = iota
	// OutcomeAvailable confirms the item exists in the catalog.
	OutcomeAvailable
	// OutcomeUnavailable means the catalog has no match; the item is
	// blacklisted for its category.
	OutcomeUnavailable
)

// NoCatalogMatchReason is the reason recorded when a catalog check comes back
// empty.
const NoCatalogMatchReason = "no catalog match"

// NoNewWorkReason is the reason recorded when an artist re-check finds
// nothing new.
const NoNewWorkReason = "no new work found in catalog"

// RecordOutcome translates an availability result into blacklist state. This
// is the only path that mutates the item blacklist during a cycle.
func (e *Engine) RecordOutcome(item media.Item, outcome Outcome) error {
	if err := item.Validate(); err != nil {
		return err
	}

	switch outcome {
	case OutcomeAvailable:
		// Confirmed available; a stale blacklist entry for the identity is
		// cleared so the item is not suppressed by old data.
		store, err := e.blacklists.ForCategory(item.Category)
		if err != nil {
			return err
		}
		if _, err := store.Remove(item); err != nil {
			return err
		}
		return nil
	case OutcomeUnavailable:
		store, err := e.blacklists.ForCategory(item.Category)
		if err != nil {
			return err
		}
		return store.Add(item, NoCatalogMatchReason)
	case OutcomeUnknown:
		e.logger.Debug("availability unknown, leaving state untouched",
			logging.String("title", item.Title),
			logging.String(logging.FieldCategory, string(item.Category)))
		return nil
	default:
		return fmt.Errorf("unknown outcome value %d", int(outcome))
	}
}

// RecordArtistOutcome feeds a personalized re-check result back into the
// artist blacklist: new work deletes the record, no new work creates or
// refreshes it.
func (e *Engine) RecordArtistOutcome(artistName string, songCount int, newWorkFound bool) error {
	if strings.TrimSpace(artistName) == "" {
		return errors.New("artist name must not be empty")
	}

	if newWorkFound {
		removed, err := e.artists.Remove(artistName)
		if err != nil {
			return err
		}
		if removed {
			e.logger.Info("artist cleared after new work found",
				logging.String("artist", artistName))
		}
		return nil
	}
	return e.artists.Add(artistName, songCount, NoNewWorkReason)
}

// Reject persists the user's rejection and removes the item from further
// consideration in this run.
func (e *Engine) Reject(item media.Item) error {
	if err := e.state.Reject(item); err != nil {
		return err
	}
	e.markOffered(item.Category, []media.Item{item})
	return nil
}

// Accept removes the item from further consideration in this run. Acceptance
// is not persisted: surfaced items are simply not re-offered, and the next
// process start may offer them again.
func (e *Engine) Accept(item media.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	e.markOffered(item.Category, []media.Item{item})
	return nil
}

// VerifyFailure pairs an item with the error its availability check raised.
type VerifyFailure struct {
	Item media.Item
	Err  error
}

// Verify runs the availability checker over the items and records each
// outcome. Items whose check fails are treated as unknown availability and
// returned so the caller can apply its retry policy; the engine itself does
// not retry.
func (e *Engine) Verify(ctx context.Context, items []media.Item) (available []media.Item, failures []VerifyFailure, err error) {
	if e.checker == nil {
		return nil, nil, errors.New("no availability checker configured")
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return available, failures, err
		}

		result, checkErr := e.checker.CheckAvailability(ctx, item)
		if checkErr != nil {
			failures = append(failures, VerifyFailure{Item: item, Err: checkErr})
			e.logger.Warn("availability check failed",
				logging.String("title", item.Title),
				logging.Error(checkErr),
				logging.String(logging.FieldImpact, "item treated as unknown availability"))
			continue
		}

		outcome := OutcomeUnavailable
		if result.Available {
			outcome = OutcomeAvailable
		}
		if err := e.RecordOutcome(item, outcome); err != nil {
			return available, failures, err
		}
		if result.Available {
			if len(result.Details) > 0 {
				item.Extra = mergeDetails(item.Extra, result.Details)
			}
			available = append(available, item)
		}
	}
	return available, failures, nil
}

func mergeDetails(extra, details map[string]string) map[string]string {
	merged := make(map[string]string, len(extra)+len(details))
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return merged
}

// ArtistCount pairs an artist with how many of their songs the archive holds.
type ArtistCount struct {
	ArtistName string `json:"artist_name"`
	SongCount  int    `json:"song_count"`
}

// FilterTopArtists walks counts in descending song-count order and returns up
// to topN artists that are not currently excluded, inspecting at most
// maxChecked entries.
func (e *Engine) FilterTopArtists(counts []ArtistCount, topN, maxChecked int) []ArtistCount {
	if topN <= 0 {
		return []ArtistCount{}
	}
	if maxChecked <= 0 {
		maxChecked = len(counts)
	}

	ordered := make([]ArtistCount, len(counts))
	copy(ordered, counts)
	sortArtistCounts(ordered)

	filtered := make([]ArtistCount, 0, topN)
	for i, entry := range ordered {
		if i >= maxChecked || len(filtered) >= topN {
			break
		}
		if e.artists.Contains(entry.ArtistName) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func sortArtistCounts(counts []ArtistCount) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].SongCount != counts[j].SongCount {
			return counts[i].SongCount > counts[j].SongCount
		}
		return counts[i].ArtistName < counts[j].ArtistName
	})
}

// PersonalizedCandidate builds an album candidate for a top artist with the
// provenance tag of the personalization pipeline.
func PersonalizedCandidate(artist, title string) media.Item {
	return media.Item{
		Title:    title,
		Author:   artist,
		Category: media.CategoryAlbum,
		Source:   media.PersonalizedSource(artist),
	}
}

// RecheckBatch wraps the artists currently due for re-evaluation as a
// separate evaluation batch for the personalized pipeline.
func (e *Engine) RecheckBatch() []ArtistCount {
	due := e.artists.DueForRecheck()
	batch := make([]ArtistCount, 0, len(due))
	for _, info := range due {
		batch = append(batch, ArtistCount{ArtistName: info.ArtistName, SongCount: info.SongCount})
	}
	return batch
}
