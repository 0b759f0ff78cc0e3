package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"shelfpick/internal/blacklist"
	"shelfpick/internal/logging"
	"shelfpick/internal/match"
	"shelfpick/internal/media"
	"shelfpick/internal/state"
	"shelfpick/internal/textnorm"
)

// CandidateSource supplies raw, unnormalized candidates for a category. One
// implementation per curated list or personalization pipeline.
type CandidateSource interface {
	// Name is the source's balancing bucket label.
	Name() string
	// Fetch returns the raw candidates for the category. Returning an empty
	// slice is not an error.
	Fetch(ctx context.Context, category media.Category) ([]media.Item, error)
}

// Availability is the outcome of one external catalog check.
type Availability struct {
	Available bool
	Details   map[string]string
}

// AvailabilityChecker is the external catalog collaborator.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, item media.Item) (Availability, error)
}

// ArchiveLookup answers whether a work is already part of the personal
// collection.
type ArchiveLookup interface {
	Contains(author, title string) bool
}

// Quota configures one selection: the total desired count and, optionally, a
// per-source cap. Not persisted.
type Quota struct {
	Total     int
	PerSource int
}

func (q Quota) validate() error {
	if q.Total <= 0 {
		return errors.New("quota total must be positive")
	}
	if q.PerSource < 0 {
		return errors.New("per-source quota must not be negative")
	}
	return nil
}

// Deps carries the engine's injected collaborators. Matcher, Blacklists,
// Artists, and State are required; Archive and Checker are optional.
type Deps struct {
	Matcher    *match.Matcher
	Blacklists *blacklist.Set
	Artists    *blacklist.ArtistBlacklist
	State      *state.Store
	Archive    ArchiveLookup
	Checker    AvailabilityChecker
	Sources    []CandidateSource
	Priority   []string
	Logger     *slog.Logger
}

// Engine coordinates the recommendation pipeline. Safe for concurrent use;
// mutating calls are serialized internally.
type Engine struct {
	matcher    *match.Matcher
	blacklists *blacklist.Set
	artists    *blacklist.ArtistBlacklist
	state      *state.Store
	archive    ArchiveLookup
	checker    AvailabilityChecker
	sources    []CandidateSource
	priority   []string
	logger     *slog.Logger

	mu      sync.Mutex
	offered map[media.Category]map[string]struct{}
}

// New validates the dependency set and constructs an Engine.
func New(deps Deps) (*Engine, error) {
	if deps.Matcher == nil {
		return nil, errors.New("matcher is required")
	}
	if deps.Blacklists == nil {
		return nil, errors.New("blacklist set is required")
	}
	if deps.Artists == nil {
		return nil, errors.New("artist blacklist is required")
	}
	if deps.State == nil {
		return nil, errors.New("state store is required")
	}

	offered := make(map[media.Category]map[string]struct{}, len(media.Categories()))
	for _, category := range media.Categories() {
		offered[category] = make(map[string]struct{})
	}

	return &Engine{
		matcher:    deps.Matcher,
		blacklists: deps.Blacklists,
		artists:    deps.Artists,
		state:      deps.State,
		archive:    deps.Archive,
		checker:    deps.Checker,
		sources:    deps.Sources,
		priority:   deps.Priority,
		logger:     logging.NewComponentLogger(deps.Logger, "engine"),
		offered:    offered,
	}, nil
}

// Recommend runs one full cycle for the category: fetch from every source,
// dedup, filter, and balance up to the quota. Nothing is persisted; the
// caller decides what to do with the selection.
func (e *Engine) Recommend(ctx context.Context, category media.Category, quota Quota) ([]media.Item, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", media.ErrUnknownCategory, string(category))
	}
	if err := quota.validate(); err != nil {
		return nil, err
	}

	candidates, err := e.fetchAll(ctx, category)
	if err != nil {
		return nil, err
	}
	return e.Select(category, candidates, quota)
}

// Select runs the dedup/filter/balance stages over candidates the caller
// already holds. Candidates must carry valid titles and the given category.
func (e *Engine) Select(category media.Category, candidates []media.Item, quota Quota) ([]media.Item, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", media.ErrUnknownCategory, string(category))
	}
	if err := quota.validate(); err != nil {
		return nil, err
	}

	deduped, err := e.dedup(category, candidates)
	if err != nil {
		return nil, err
	}
	filtered := e.filter(category, deduped)
	selection := balanced(filtered, e.priority, quota)
	e.markOffered(category, selection)

	e.logger.Info("selection complete",
		logging.String(logging.FieldCategory, string(category)),
		logging.Int("raw", len(candidates)),
		logging.Int("deduped", len(deduped)),
		logging.Int("filtered", len(filtered)),
		logging.Int("selected", len(selection)))
	return selection, nil
}

// fetchAll gathers candidates from every source in configuration order. A
// failing source is logged and skipped so one collapsed list degrades the
// cycle instead of aborting it.
func (e *Engine) fetchAll(ctx context.Context, category media.Category) ([]media.Item, error) {
	var candidates []media.Item
	for _, source := range e.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := source.Fetch(ctx, category)
		if err != nil {
			e.logger.Warn("source fetch failed",
				logging.String(logging.FieldSource, source.Name()),
				logging.String(logging.FieldCategory, string(category)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "cycle continues without this source"))
			continue
		}
		candidates = append(candidates, items...)
	}
	return candidates, nil
}

// dedup merges candidates in arrival order, keeping the first-seen item for
// every identity. Arrival order follows source priority, so the kept item
// carries the higher-priority provenance tag.
func (e *Engine) dedup(category media.Category, candidates []media.Item) ([]media.Item, error) {
	ordered := orderByPriority(candidates, e.priority)

	kept := make([]media.Item, 0, len(ordered))
	seen := make(map[string]struct{}, len(ordered))

	for _, candidate := range ordered {
		if err := candidate.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %q: %w", candidate.Title, err)
		}
		if candidate.Category != category {
			return nil, fmt.Errorf("candidate %q: category %q does not match cycle category %q",
				candidate.Title, candidate.Category, category)
		}

		key := textnorm.Key(candidate.Title, candidate.Author)
		if _, dup := seen[key]; dup {
			continue
		}

		duplicate := false
		for _, existing := range kept {
			if e.matcher.SameWork(existing, candidate) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		seen[key] = struct{}{}
		kept = append(kept, candidate)
	}
	return kept, nil
}

// filter drops rejected, blacklisted, already-offered, owned, and
// artist-excluded candidates.
func (e *Engine) filter(category media.Category, candidates []media.Item) []media.Item {
	e.mu.Lock()
	offered := make(map[string]struct{}, len(e.offered[category]))
	for key := range e.offered[category] {
		offered[key] = struct{}{}
	}
	e.mu.Unlock()

	kept := make([]media.Item, 0, len(candidates))
	for _, candidate := range candidates {
		key := textnorm.Key(candidate.Title, candidate.Author)
		if _, ok := offered[key]; ok {
			continue
		}
		if e.state.IsRejected(candidate) {
			continue
		}
		if e.blacklists.Contains(candidate) {
			continue
		}
		if candidate.Source.Personalized() {
			if e.artists.Contains(candidate.Author) {
				continue
			}
			if e.archive != nil && e.archive.Contains(candidate.Author, candidate.Title) {
				continue
			}
		}
		kept = append(kept, candidate)
	}
	return kept
}

// markOffered remembers the selection for the rest of the process lifetime so
// later cycles in the same run do not repeat it. In-memory only.
func (e *Engine) markOffered(category media.Category, items []media.Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, item := range items {
		e.offered[category][textnorm.Key(item.Title, item.Author)] = struct{}{}
	}
}

// ResetOffered forgets the per-run offered memory for one category, or for
// all categories when category is empty.
func (e *Engine) ResetOffered(category media.Category) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if category == "" {
		for _, keys := range e.offered {
			clear(keys)
		}
		return
	}
	clear(e.offered[category])
}

// BlacklistStats exposes the aggregated no-catalog-match blacklist counts.
func (e *Engine) BlacklistStats() blacklist.Stats {
	return e.blacklists.Stats()
}

// ArtistBlacklistStats exposes the artist blacklist summary.
func (e *Engine) ArtistBlacklistStats() blacklist.ArtistStats {
	return e.artists.Stats()
}

// DueForRecheck lists artists whose exclusion has gone stale, stalest first.
func (e *Engine) DueForRecheck() []blacklist.RecheckInfo {
	return e.artists.DueForRecheck()
}
