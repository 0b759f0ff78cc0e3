package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validatePersonalized(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.TitleThreshold <= 0 || c.Matching.TitleThreshold > 1 {
		return errors.New("matching.title_threshold must be between 0 and 1")
	}
	if c.Matching.AuthorThreshold <= 0 || c.Matching.AuthorThreshold > 1 {
		return errors.New("matching.author_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.Selection.Quota <= 0 {
		return errors.New("selection.quota must be positive")
	}
	if c.Selection.PerSource < 0 {
		return errors.New("selection.per_source must be >= 0")
	}
	if c.Selection.PerSource > 0 && c.Selection.PerSource > c.Selection.Quota {
		return fmt.Errorf("selection.per_source (%d) must not exceed selection.quota (%d)",
			c.Selection.PerSource, c.Selection.Quota)
	}
	return nil
}

func (c *Config) validatePersonalized() error {
	if !c.Personalized.Enabled {
		return nil
	}
	if c.Personalized.TopArtists <= 0 {
		return errors.New("personalized.top_artists must be positive")
	}
	if c.Personalized.MaxArtistsChecked < c.Personalized.TopArtists {
		return errors.New("personalized.max_artists_checked must be >= personalized.top_artists")
	}
	if c.Personalized.RecheckDays <= 0 {
		return errors.New("personalized.recheck_days must be positive")
	}
	return nil
}

func (c *Config) validateArchive() error {
	if c.Archive.ScanDepth < 1 {
		return errors.New("archive.scan_depth must be >= 1")
	}
	return nil
}
