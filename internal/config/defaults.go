package config

const (
	defaultDataDir          = "~/.local/share/shelfpick"
	defaultLogDir           = "~/.local/share/shelfpick/logs"
	defaultSourcesDir       = "~/.config/shelfpick/sources"
	defaultTitleThreshold   = 0.85
	defaultAuthorThreshold  = 0.70
	defaultRecheckDays      = 365
	defaultQuota            = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultHistoryRetention = 365
	defaultArchiveScanDepth = 2
	defaultPersonalizedTopN = 5
	defaultPersonalizedPool = 20
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SourcesDir: defaultSourcesDir,
		},
		Matching: Matching{
			TitleThreshold:  defaultTitleThreshold,
			AuthorThreshold: defaultAuthorThreshold,
		},
		Selection: Selection{
			Quota: defaultQuota,
		},
		Personalized: Personalized{
			Enabled:           true,
			TopArtists:        defaultPersonalizedTopN,
			MaxArtistsChecked: defaultPersonalizedPool,
			RecheckDays:       defaultRecheckDays,
		},
		Archive: Archive{
			ScanDepth: defaultArchiveScanDepth,
		},
		History: History{
			Enabled:       true,
			RetentionDays: defaultHistoryRetention,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
