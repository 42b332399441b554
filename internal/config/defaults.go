package config

const (
	defaultDataDir                = "~/.local/share/marquee/data"
	defaultLogDir                 = "~/.local/share/marquee/logs"
	defaultAPIBind                = "127.0.0.1:7600"
	defaultNotionBaseURL          = "https://api.notion.com/v1"
	defaultNotionVersion          = "2022-06-28"
	defaultNotionTimeoutSeconds   = 30
	defaultSyncIntervalSeconds    = 300
	defaultDownloadTimeoutSeconds = 60
	defaultHistoryRetention       = 200
	defaultCalendarInterval       = 300
	defaultCalendarTimeout        = 10
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			// MediaDir is intentionally empty so normalize derives it
			// from the effective DataDir after overrides apply.
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Notion: Notion{
			BaseURL:        defaultNotionBaseURL,
			Version:        defaultNotionVersion,
			TimeoutSeconds: defaultNotionTimeoutSeconds,
		},
		Sync: Sync{
			IntervalSeconds:        defaultSyncIntervalSeconds,
			DownloadTimeoutSeconds: defaultDownloadTimeoutSeconds,
			HistoryRetention:       defaultHistoryRetention,
		},
		Calendar: Calendar{
			IntervalSeconds: defaultCalendarInterval,
			TimeoutSeconds:  defaultCalendarTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
