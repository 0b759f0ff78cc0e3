package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"shelfpick/internal/archive"
	"shelfpick/internal/blacklist"
	"shelfpick/internal/config"
	"shelfpick/internal/history"
	"shelfpick/internal/logging"
	"shelfpick/internal/match"
	"shelfpick/internal/media"
	"shelfpick/internal/recommend"
	"shelfpick/internal/state"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// stores bundles the durable collaborators shared by most commands.
type stores struct {
	blacklists *blacklist.Set
	artists    *blacklist.ArtistBlacklist
	state      *state.Store
}

func (c *commandContext) openStores() (*stores, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	return &stores{
		blacklists: blacklist.NewSet(cfg.BlacklistPath, logger),
		artists: blacklist.NewArtistBlacklist(cfg.ArtistBlacklistPath(),
			cfg.RecheckInterval(), logger),
		state: state.NewStore(cfg.StatePath(), logger),
	}, nil
}

func (c *commandContext) openEngine() (*recommend.Engine, *config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	st, err := c.openStores()
	if err != nil {
		return nil, nil, err
	}

	index, err := archive.Scan(cfg.Paths.ArchiveDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("scan archive: %w", err)
	}

	sources, err := recommend.DiscoverFileSources(cfg.Paths.SourcesDir)
	if err != nil {
		return nil, nil, err
	}

	engine, err := recommend.New(recommend.Deps{
		Matcher:    match.New(cfg.Matching.TitleThreshold, cfg.Matching.AuthorThreshold),
		Blacklists: st.blacklists,
		Artists:    st.artists,
		State:      st.state,
		Archive:    index,
		Sources:    sources,
		Priority:   cfg.Selection.SourcePriority,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.HistoryPath())
}

// withLock serializes mutating commands across processes through the data-dir
// lock file.
func (c *commandContext) withLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another shelfpick instance is already writing; retry in a moment")
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func categoryArg(value string) (media.Category, error) {
	category, err := media.ParseCategory(value)
	if err != nil {
		return "", fmt.Errorf("%w (expected film, album, or book)", err)
	}
	return category, nil
}
