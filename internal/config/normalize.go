package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeSelection()
	c.normalizePersonalized()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SourcesDir) == "" {
		c.Paths.SourcesDir = defaultSourcesDir
	}
	if c.Paths.SourcesDir, err = expandPath(c.Paths.SourcesDir); err != nil {
		return fmt.Errorf("paths.sources_dir: %w", err)
	}
	c.Paths.ArchiveDir = strings.TrimSpace(c.Paths.ArchiveDir)
	if c.Paths.ArchiveDir != "" {
		if c.Paths.ArchiveDir, err = expandPath(c.Paths.ArchiveDir); err != nil {
			return fmt.Errorf("paths.archive_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.TitleThreshold == 0 {
		c.Matching.TitleThreshold = defaultTitleThreshold
	}
	if c.Matching.AuthorThreshold == 0 {
		c.Matching.AuthorThreshold = defaultAuthorThreshold
	}
}

func (c *Config) normalizeSelection() {
	if c.Selection.Quota <= 0 {
		c.Selection.Quota = defaultQuota
	}
	if c.Selection.PerSource < 0 {
		c.Selection.PerSource = 0
	}
	priority := make([]string, 0, len(c.Selection.SourcePriority))
	seen := make(map[string]struct{}, len(c.Selection.SourcePriority))
	for _, name := range c.Selection.SourcePriority {
		normalized := strings.TrimSpace(name)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		priority = append(priority, normalized)
	}
	c.Selection.SourcePriority = priority
}

func (c *Config) normalizePersonalized() {
	if c.Personalized.TopArtists <= 0 {
		c.Personalized.TopArtists = defaultPersonalizedTopN
	}
	if c.Personalized.MaxArtistsChecked <= 0 {
		c.Personalized.MaxArtistsChecked = defaultPersonalizedPool
	}
	if c.Personalized.RecheckDays <= 0 {
		c.Personalized.RecheckDays = defaultRecheckDays
	}
}

func (c *Config) normalizeHistory() {
	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = defaultHistoryRetention
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
