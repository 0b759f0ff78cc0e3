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
	"shelfpick/internal/textnorm"
)

// DefaultRecheckInterval is how long an artist stays excluded before a
// re-check of the catalog is due.
const DefaultRecheckInterval = 365 * 24 * time.Hour

// recentWindow bounds the "recent additions" stat.
const recentWindow = 30 * 24 * time.Hour

// ArtistRecord tracks one artist with no new work in the catalog. The record
// survives past the recheck interval; only a re-check that finds new work
// deletes it.
type ArtistRecord struct {
	ArtistName  string    `json:"artist_name"`
	SongCount   int       `json:"song_count"`
	Reason      string    `json:"reason"`
	AddedAt     time.Time `json:"added_at"`
	LastChecked time.Time `json:"last_checked"`
	CheckCount  int       `json:"check_count"`
}

// RecheckInfo describes an artist whose exclusion has gone stale.
type RecheckInfo struct {
	ArtistName     string    `json:"artist_name"`
	DaysSinceCheck int       `json:"days_since_check"`
	LastChecked    time.Time `json:"last_checked"`
	CheckCount     int       `json:"check_count"`
	SongCount      int       `json:"song_count"`
}

// CheckTally pairs an artist with how often it has been evaluated.
type CheckTally struct {
	ArtistName string `json:"artist_name"`
	CheckCount int    `json:"check_count"`
}

// ArtistStats summarizes the artist blacklist.
type ArtistStats struct {
	TotalArtists    int          `json:"total_artists"`
	DueForRecheck   int          `json:"due_for_recheck"`
	RecentAdditions int          `json:"recent_additions"`
	MostChecked     []CheckTally `json:"most_checked"`
}

// ArtistBlacklist is the personalized, time-aware artist exclusion store,
// backed by a single JSON file keyed by normalized artist name. Safe for
// concurrent use.
type ArtistBlacklist struct {
	path     string
	interval time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	records map[string]ArtistRecord
	now     func() time.Time
}

// NewArtistBlacklist loads or creates the artist blacklist. A non-positive
// interval falls back to DefaultRecheckInterval. Load failures degrade to an
// empty store; the backing file is preserved until the next successful save.
func NewArtistBlacklist(path string, interval time.Duration, logger *slog.Logger) *ArtistBlacklist {
	if interval <= 0 {
		interval = DefaultRecheckInterval
	}
	logger = logging.NewComponentLogger(logger, "artistblacklist")

	b := &ArtistBlacklist{
		path:     path,
		interval: interval,
		logger:   logger,
		records:  make(map[string]ArtistRecord),
		now:      time.Now,
	}

	if err := b.load(); err != nil {
		b.logger.Warn("failed to load artist blacklist",
			logging.String(logging.FieldEventType, "artist_blacklist_load_failed"),
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "store starts empty; artists may be re-checked early"))
	}

	return b
}

// Contains reports whether the artist is currently excluded: a record exists
// and its last check is younger than the recheck interval. A record at or
// past the interval reports false so the artist becomes eligible for
// re-evaluation without losing its history.
func (b *ArtistBlacklist) Contains(artistName string) bool {
	key := textnorm.NormalizeName(artistName)
	if key == "" {
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.records[key]
	if !ok {
		return false
	}
	return b.now().Sub(record.LastChecked) < b.interval
}

// Record returns the stored record for the artist, if any, regardless of
// recheck status.
func (b *ArtistBlacklist) Record(artistName string) (ArtistRecord, bool) {
	key := textnorm.NormalizeName(artistName)

	b.mu.RLock()
	defer b.mu.RUnlock()

	record, ok := b.records[key]
	return record, ok
}

// Records lists every stored record, newest additions first.
func (b *ArtistBlacklist) Records() []ArtistRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()

	records := make([]ArtistRecord, 0, len(b.records))
	for _, record := range b.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].AddedAt.Equal(records[j].AddedAt) {
			return records[i].AddedAt.After(records[j].AddedAt)
		}
		return records[i].ArtistName < records[j].ArtistName
	})
	return records
}

// Add creates a record for the artist or, when one exists, refreshes
// song count, reason, and last-checked while incrementing the check count.
func (b *ArtistBlacklist) Add(artistName string, songCount int, reason string) error {
	key := textnorm.NormalizeName(artistName)
	if key == "" {
		return errors.New("artist name must not be empty")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now().UTC()
	record, exists := b.records[key]
	if exists {
		record.SongCount = songCount
		record.Reason = reason
		record.LastChecked = now
		record.CheckCount++
	} else {
		record = ArtistRecord{
			ArtistName:  strings.TrimSpace(artistName),
			SongCount:   songCount,
			Reason:      reason,
			AddedAt:     now,
			LastChecked: now,
			CheckCount:  1,
		}
	}
	b.records[key] = record

	if err := b.save(); err != nil {
		return fmt.Errorf("persist artist blacklist: %w", err)
	}

	b.logger.Debug("artist blacklisted",
		logging.String("artist", record.ArtistName),
		logging.Int("check_count", record.CheckCount),
		logging.String("reason", reason))
	return nil
}

// Remove deletes the artist's record entirely, used when a re-check finds new
// work. Reports whether a deletion occurred.
func (b *ArtistBlacklist) Remove(artistName string) (bool, error) {
	key := textnorm.NormalizeName(artistName)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.records[key]; !ok {
		return false, nil
	}
	delete(b.records, key)

	if err := b.save(); err != nil {
		return true, fmt.Errorf("persist artist blacklist: %w", err)
	}

	b.logger.Debug("artist removed from blacklist", logging.String("artist", artistName))
	return true, nil
}

// DueForRecheck returns every artist whose last check is at least one
// interval old, stalest first.
func (b *ArtistBlacklist) DueForRecheck() []RecheckInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	now := b.now()
	due := make([]RecheckInfo, 0)
	for _, record := range b.records {
		elapsed := now.Sub(record.LastChecked)
		if elapsed < b.interval {
			continue
		}
		due = append(due, RecheckInfo{
			ArtistName:     record.ArtistName,
			DaysSinceCheck: int(elapsed.Hours() / 24),
			LastChecked:    record.LastChecked,
			CheckCount:     record.CheckCount,
			SongCount:      record.SongCount,
		})
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].DaysSinceCheck == due[j].DaysSinceCheck {
			return due[i].ArtistName < due[j].ArtistName
		}
		return due[i].DaysSinceCheck > due[j].DaysSinceCheck
	})
	return due
}

// Stats summarizes the store: total records, how many are due for re-check,
// additions within the last 30 days, and the five most-checked artists.
func (b *ArtistBlacklist) Stats() ArtistStats {
	due := len(b.DueForRecheck())

	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := ArtistStats{
		TotalArtists:  len(b.records),
		DueForRecheck: due,
		MostChecked:   []CheckTally{},
	}

	cutoff := b.now().Add(-recentWindow)
	tallies := make([]CheckTally, 0, len(b.records))
	for _, record := range b.records {
		if record.AddedAt.After(cutoff) {
			stats.RecentAdditions++
		}
		tallies = append(tallies, CheckTally{ArtistName: record.ArtistName, CheckCount: record.CheckCount})
	}

	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].CheckCount == tallies[j].CheckCount {
			return tallies[i].ArtistName < tallies[j].ArtistName
		}
		return tallies[i].CheckCount > tallies[j].CheckCount
	})
	if len(tallies) > 5 {
		tallies = tallies[:5]
	}
	stats.MostChecked = tallies
	return stats
}

// PruneOlderThan removes records whose first blacklisting exceeds maxAge,
// regardless of recheck status. Returns the number of removed records.
func (b *ArtistBlacklist) PruneOlderThan(maxAge time.Duration) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().Add(-maxAge)
	removed := 0
	for key, record := range b.records {
		if record.AddedAt.Before(cutoff) {
			delete(b.records, key)
			removed++
		}
	}

	if removed == 0 {
		return 0, nil
	}
	if err := b.save(); err != nil {
		return removed, fmt.Errorf("persist artist blacklist: %w", err)
	}

	b.logger.Debug("pruned artist blacklist",
		logging.Int("removed", removed),
		logging.Duration("max_age", maxAge))
	return removed, nil
}

// Len returns the number of records, including stale ones.
func (b *ArtistBlacklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}

func (b *ArtistBlacklist) load() error {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read artist blacklist file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records map[string]ArtistRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse artist blacklist file: %w", err)
	}

	b.records = make(map[string]ArtistRecord, len(records))
	for key, record := range records {
		if strings.TrimSpace(record.ArtistName) == "" {
			continue
		}
		b.records[key] = record
	}

	b.logger.Debug("loaded artist blacklist",
		logging.Int("entry_count", len(b.records)),
		logging.String(logging.FieldPath, b.path))
	return nil
}

// save writes the store to disk atomically. Callers hold the write lock.
func (b *ArtistBlacklist) save() error {
	data, err := json.MarshalIndent(b.records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artist blacklist: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("create artist blacklist directory: %w", err)
	}

	tmpPath := b.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
