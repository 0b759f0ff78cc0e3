package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shelfpick/internal/media"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	ArchiveDir string `toml:"archive_dir"`
	SourcesDir string `toml:"sources_dir"`
}

// Matching contains the fuzzy-comparison thresholds used for deduplication
// and store lookups.
type Matching struct {
	TitleThreshold  float64 `toml:"title_threshold"`
	AuthorThreshold float64 `toml:"author_threshold"`
}

// Selection contains quota configuration for one recommendation cycle.
type Selection struct {
	Quota          int      `toml:"quota"`
	PerSource      int      `toml:"per_source"`
	SourcePriority []string `toml:"source_priority"`
}

// Personalized contains configuration for the top-artist pipeline.
type Personalized struct {
	Enabled           bool `toml:"enabled"`
	TopArtists        int  `toml:"top_artists"`
	MaxArtistsChecked int  `toml:"max_artists_checked"`
	RecheckDays       int  `toml:"recheck_days"`
}

// Archive contains configuration for the owned-collection scan.
type Archive struct {
	ScanDepth int `toml:"scan_depth"`
}

// History contains configuration for the cycle journal.
type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shelfpick.
//
// Configuration sections by subsystem:
//   - Paths: data, log, archive, and candidate-source directories
//   - Matching: title and author similarity thresholds
//   - Selection: cycle quota, per-source cap, and source priority
//   - Personalized: top-artist pipeline limits and recheck interval
//   - Archive: owned-collection scan settings
//   - History: cycle journal retention
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Matching     Matching     `toml:"matching"`
	Selection    Selection    `toml:"selection"`
	Personalized Personalized `toml:"personalized"`
	Archive      Archive      `toml:"archive"`
	History      History      `toml:"history"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/shelfpick/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shelfpick.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories every command relies on.
// ArchiveDir is left alone; it points at an existing collection.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.SourcesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// BlacklistPath returns the per-category blacklist file location.
func (c *Config) BlacklistPath(category media.Category) string {
	return filepath.Join(c.Paths.DataDir, string(category)+"_blacklist.json")
}

// ArtistBlacklistPath returns the artist blacklist file location.
func (c *Config) ArtistBlacklistPath() string {
	return filepath.Join(c.Paths.DataDir, "artist_blacklist.json")
}

// StatePath returns the rejected-state file location.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.DataDir, "state.json")
}

// HistoryPath returns the cycle journal database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.DataDir, "history.db")
}

// RecheckInterval converts the configured recheck window into a duration.
func (c *Config) RecheckInterval() time.Duration {
	return time.Duration(c.Personalized.RecheckDays) * 24 * time.Hour
}

// HistoryRetention converts the configured journal retention into a duration.
func (c *Config) HistoryRetention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}

// LockPath returns the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "shelfpick.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
