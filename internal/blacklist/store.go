package blacklist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"shelfpick/internal/logging"
	"shelfpick/internal/media"
	"shelfpick/internal/textnorm"
)

// Entry records one item with no catalog match. Entries are permanent until
// explicitly removed.
type Entry struct {
	Title    string         `json:"title"`
	Author   string         `json:"author,omitempty"`
	Category media.Category `json:"category"`
	Reason   string         `json:"reason"`
	AddedAt  time.Time      `json:"added_at"`
}

// Store is the category-scoped "no catalog match" blacklist, backed by one
// JSON file. Safe for concurrent use.
type Store struct {
	path     string
	category media.Category
	logger   *slog.Logger

	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewStore loads or creates the blacklist for one category. A corrupt or
// unreadable backing file is logged and treated as empty; the file itself is
// left untouched until the next successful save.
func NewStore(path string, category media.Category, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "blacklist")

	s := &Store{
		path:     path,
		category: category,
		logger:   logger.With(logging.String(logging.FieldCategory, string(category))),
		entries:  make(map[string]Entry),
		now:      time.Now,
	}

	if err := s.load(); err != nil {
		s.logger.Warn("failed to load blacklist",
			logging.String(logging.FieldEventType, "blacklist_load_failed"),
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "store starts empty; previously blacklisted items may be re-checked"))
	}

	return s
}

// Category returns the category this store is scoped to.
func (s *Store) Category() media.Category {
	return s.category
}

// Contains reports whether the item's normalized identity is blacklisted.
func (s *Store) Contains(item media.Item) bool {
	key := textnorm.Key(item.Title, item.Author)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.entries[key]; ok {
		return true
	}
	if strings.TrimSpace(item.Author) == "" {
		return false
	}
	// An entry recorded without an author blocks any item sharing the title.
	_, ok := s.entries[textnorm.Key(item.Title, "")]
	return ok
}

// Add inserts or refreshes the entry for the item. Re-adding an existing
// identity updates the reason and timestamp without duplicating.
func (s *Store) Add(item media.Item, reason string) error {
	if err := item.Validate(); err != nil {
		return err
	}
	key := textnorm.Key(item.Title, item.Author)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = Entry{
		Title:    item.Title,
		Author:   item.Author,
		Category: s.category,
		Reason:   reason,
		AddedAt:  s.now().UTC(),
	}

	if err := s.save(); err != nil {
		return fmt.Errorf("persist blacklist: %w", err)
	}

	s.logger.Debug("blacklisted item",
		logging.String("title", item.Title),
		logging.String("reason", reason))
	return nil
}

// Remove deletes the entry matching the item's identity. Reports whether a
// deletion occurred.
func (s *Store) Remove(item media.Item) (bool, error) {
	key := textnorm.Key(item.Title, item.Author)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)

	if err := s.save(); err != nil {
		return true, fmt.Errorf("persist blacklist: %w", err)
	}

	s.logger.Debug("removed blacklisted item", logging.String("title", item.Title))
	return true, nil
}

// Entries returns all entries sorted newest first.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AddedAt.Equal(entries[j].AddedAt) {
			return entries[i].Title < entries[j].Title
		}
		return entries[i].AddedAt.After(entries[j].AddedAt)
	})
	return entries
}

// Count returns the number of blacklisted identities.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every entry and persists the empty store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]Entry)
	if err := s.save(); err != nil {
		return fmt.Errorf("persist blacklist: %w", err)
	}
	s.logger.Debug("cleared blacklist")
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read blacklist file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse blacklist file: %w", err)
	}

	s.entries = make(map[string]Entry, len(entries))
	for key, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" {
			continue
		}
		s.entries[key] = entry
	}

	s.logger.Debug("loaded blacklist",
		logging.Int("entry_count", len(s.entries)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// save writes the store to disk atomically. Callers hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal blacklist: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create blacklist directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Stats summarizes blacklist contents across categories.
type Stats struct {
	Total      int                    `json:"total"`
	ByCategory map[media.Category]int `json:"by_category"`
}

// Set bundles the per-category stores and owns unknown-category rejection.
type Set struct {
	stores map[media.Category]*Store
}

// NewSet constructs a Set with one store per known category. pathFor maps a
// category to its backing file.
func NewSet(pathFor func(media.Category) string, logger *slog.Logger) *Set {
	stores := make(map[media.Category]*Store, len(media.Categories()))
	for _, category := range media.Categories() {
		stores[category] = NewStore(pathFor(category), category, logger)
	}
	return &Set{stores: stores}
}

// ForCategory returns the store scoped to the category.
func (s *Set) ForCategory(category media.Category) (*Store, error) {
	store, ok := s.stores[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", media.ErrUnknownCategory, string(category))
	}
	return store, nil
}

// Contains reports whether the item is blacklisted in its own category.
// Unknown categories report false; validity is checked at ingestion.
func (s *Set) Contains(item media.Item) bool {
	store, ok := s.stores[item.Category]
	if !ok {
		return false
	}
	return store.Contains(item)
}

// Stats aggregates counts across all categories.
func (s *Set) Stats() Stats {
	stats := Stats{ByCategory: make(map[media.Category]int, len(s.stores))}
	for category, store := range s.stores {
		count := store.Count()
		stats.ByCategory[category] = count
		stats.Total += count
	}
	return stats
}
