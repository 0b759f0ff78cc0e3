package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"shelfpick/internal/logging"
	"shelfpick/internal/media"
	"shelfpick/internal/textnorm"
)

// Store holds the rejected item keys per category, backed by a single JSON
// file. Mutations persist immediately. Safe for concurrent use.
type Store struct {
	path   string
	logger *slog.Logger

	mu       sync.RWMutex
	rejected map[media.Category]map[string]struct{}
}

// NewStore loads or creates the accept/reject state. A corrupt or unreadable
// file degrades to empty state; the file is preserved until the next
// successful save.
func NewStore(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "state")

	s := &Store{
		path:     path,
		logger:   logger,
		rejected: emptyState(),
	}

	if err := s.load(); err != nil {
		s.logger.Warn("failed to load reject state",
			logging.String(logging.FieldEventType, "state_load_failed"),
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "previously rejected items may be offered again"))
	}

	return s
}

func emptyState() map[media.Category]map[string]struct{} {
	state := make(map[media.Category]map[string]struct{}, len(media.Categories()))
	for _, category := range media.Categories() {
		state[category] = make(map[string]struct{})
	}
	return state
}

// IsRejected reports whether the item was rejected at any point.
func (s *Store) IsRejected(item media.Item) bool {
	key := textnorm.Key(item.Title, item.Author)

	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, ok := s.rejected[item.Category]
	if !ok {
		return false
	}
	_, rejected := keys[key]
	return rejected
}

// Reject marks the item as permanently rejected and persists immediately.
func (s *Store) Reject(item media.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	key := textnorm.Key(item.Title, item.Author)

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, ok := s.rejected[item.Category]
	if !ok {
		keys = make(map[string]struct{})
		s.rejected[item.Category] = keys
	}
	if _, exists := keys[key]; exists {
		return nil
	}
	keys[key] = struct{}{}

	if err := s.save(); err != nil {
		return fmt.Errorf("persist reject state: %w", err)
	}

	s.logger.Debug("item rejected",
		logging.String("title", item.Title),
		logging.String(logging.FieldCategory, string(item.Category)))
	return nil
}

// Rejected returns the sorted keys rejected in a category.
func (s *Store) Rejected(category media.Category) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.rejected[category]))
	for key := range s.rejected[category] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Stats reports the rejected counts per category.
type Stats struct {
	Total      int                    `json:"total"`
	ByCategory map[media.Category]int `json:"by_category"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{ByCategory: make(map[media.Category]int, len(s.rejected))}
	for category, keys := range s.rejected {
		stats.ByCategory[category] = len(keys)
		stats.Total += len(keys)
	}
	return stats
}

// Reset clears the rejected set for one category, or all categories when
// category is empty, and persists the result.
func (s *Store) Reset(category media.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category == "" {
		s.rejected = emptyState()
	} else {
		if !category.Valid() {
			return fmt.Errorf("%w: %q", media.ErrUnknownCategory, string(category))
		}
		s.rejected[category] = make(map[string]struct{})
	}

	if err := s.save(); err != nil {
		return fmt.Errorf("persist reject state: %w", err)
	}
	s.logger.Debug("reject state reset", logging.String(logging.FieldCategory, string(category)))
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var raw map[media.Category][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse state file: %w", err)
	}

	state := emptyState()
	for category, keys := range raw {
		if !category.Valid() {
			continue
		}
		for _, key := range keys {
			state[category][key] = struct{}{}
		}
	}
	s.rejected = state

	s.logger.Debug("loaded reject state", logging.String(logging.FieldPath, s.path))
	return nil
}

// save writes the state to disk atomically. Callers hold the write lock.
func (s *Store) save() error {
	raw := make(map[media.Category][]string, len(s.rejected))
	for category, keys := range s.rejected {
		sorted := make([]string, 0, len(keys))
		for key := range keys {
			sorted = append(sorted, key)
		}
		sort.Strings(sorted)
		raw[category] = sorted
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
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
