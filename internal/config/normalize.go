package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNotion()
	c.normalizeSync()
	c.normalizeCalendar()
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
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		c.Paths.MediaDir = filepath.Join(c.Paths.DataDir, "media")
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeNotion() {
	c.Notion.Token = strings.TrimSpace(c.Notion.Token)
	if c.Notion.Token == "" {
		if value, ok := os.LookupEnv("NOTION_TOKEN"); ok {
			c.Notion.Token = strings.TrimSpace(value)
		}
	}
	c.Notion.DatabaseID = strings.TrimSpace(c.Notion.DatabaseID)
	if c.Notion.DatabaseID == "" {
		if value, ok := os.LookupEnv("NOTION_DATABASE_ID"); ok {
			c.Notion.DatabaseID = strings.TrimSpace(value)
		}
	}
	c.Notion.BaseURL = strings.TrimRight(strings.TrimSpace(c.Notion.BaseURL), "/")
	if c.Notion.BaseURL == "" {
		c.Notion.BaseURL = defaultNotionBaseURL
	}
	c.Notion.Version = strings.TrimSpace(c.Notion.Version)
	if c.Notion.Version == "" {
		c.Notion.Version = defaultNotionVersion
	}
	if c.Notion.TimeoutSeconds <= 0 {
		c.Notion.TimeoutSeconds = defaultNotionTimeoutSeconds
	}
}

func (c *Config) normalizeSync() {
	if c.Sync.IntervalSeconds <= 0 {
		if value, ok := os.LookupEnv("SYNC_INTERVAL"); ok {
			if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && parsed > 0 {
				c.Sync.IntervalSeconds = parsed
			}
		}
	}
	if c.Sync.IntervalSeconds <= 0 {
		c.Sync.IntervalSeconds = defaultSyncIntervalSeconds
	}
	if c.Sync.DownloadTimeoutSeconds <= 0 {
		c.Sync.DownloadTimeoutSeconds = defaultDownloadTimeoutSeconds
	}
	if c.Sync.HistoryRetention <= 0 {
		c.Sync.HistoryRetention = defaultHistoryRetention
	}
}

func (c *Config) normalizeCalendar() {
	if c.Calendar.IntervalSeconds <= 0 {
		c.Calendar.IntervalSeconds = defaultCalendarInterval
	}
	if c.Calendar.TimeoutSeconds <= 0 {
		c.Calendar.TimeoutSeconds = defaultCalendarTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
