package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shelfpick/internal/config"
	"shelfpick/internal/media"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "shelfpick")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.ArchiveDir != "" {
		t.Fatalf("expected empty archive dir by default, got %q", cfg.Paths.ArchiveDir)
	}
	if cfg.Matching.TitleThreshold != 0.85 {
		t.Fatalf("unexpected title threshold: %v", cfg.Matching.TitleThreshold)
	}
	if cfg.Matching.AuthorThreshold != 0.70 {
		t.Fatalf("unexpected author threshold: %v", cfg.Matching.AuthorThreshold)
	}
	if cfg.Selection.Quota != 10 {
		t.Fatalf("unexpected quota: %d", cfg.Selection.Quota)
	}
	if !cfg.Personalized.Enabled {
		t.Fatal("expected personalized pipeline enabled by default")
	}
	if cfg.Personalized.RecheckDays != 365 {
		t.Fatalf("unexpected recheck days: %d", cfg.Personalized.RecheckDays)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.ToSlash(filepath.Join(dir, "data")) + `"`,
		`archive_dir = "` + filepath.ToSlash(filepath.Join(dir, "music")) + `"`,
		"[matching]",
		"title_threshold = 0.9",
		"[selection]",
		"quota = 4",
		"per_source = 2",
		`source_priority = ["curated-1", "", "curated-1", "personalized"]`,
		"[logging]",
		`format = "JSON"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Matching.TitleThreshold != 0.9 {
		t.Fatalf("override lost: %v", cfg.Matching.TitleThreshold)
	}
	if cfg.Matching.AuthorThreshold != 0.70 {
		t.Fatalf("default not kept: %v", cfg.Matching.AuthorThreshold)
	}
	if cfg.Selection.Quota != 4 || cfg.Selection.PerSource != 2 {
		t.Fatalf("unexpected selection: %+v", cfg.Selection)
	}
	want := []string{"curated-1", "personalized"}
	if len(cfg.Selection.SourcePriority) != len(want) {
		t.Fatalf("priority not deduped: %v", cfg.Selection.SourcePriority)
	}
	for i := range want {
		if cfg.Selection.SourcePriority[i] != want[i] {
			t.Fatalf("unexpected priority: %v", cfg.Selection.SourcePriority)
		}
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("log format not normalized: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"title threshold above one", "[matching]\ntitle_threshold = 1.5\n"},
		{"per-source above quota", "[selection]\nquota = 3\nper_source = 5\n"},
		{"checked below top", "[personalized]\ntop_artists = 10\nmax_artists_checked = 5\n"},
		{"zero scan depth", "[archive]\nscan_depth = -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestStatePathsLiveUnderDataDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	for _, path := range []string{
		cfg.BlacklistPath(media.CategoryFilm),
		cfg.ArtistBlacklistPath(),
		cfg.StatePath(),
		cfg.HistoryPath(),
		cfg.LockPath(),
	} {
		if !strings.HasPrefix(path, cfg.Paths.DataDir) {
			t.Fatalf("path %q escapes data dir %q", path, cfg.Paths.DataDir)
		}
	}
	if filepath.Base(cfg.BlacklistPath(media.CategoryAlbum)) != "album_blacklist.json" {
		t.Fatalf("unexpected blacklist file name: %q", cfg.BlacklistPath(media.CategoryAlbum))
	}
}

func TestCreateSampleWritesParseableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("sample file not found after CreateSample")
	}
	if cfg.Selection.Quota != 10 {
		t.Fatalf("sample drifted from defaults: quota %d", cfg.Selection.Quota)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.SourcesDir = filepath.Join(dir, "sources")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.SourcesDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %q missing after EnsureDirectories", d)
		}
	}
}
