package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Notion credentials are
// deliberately not required; the daemon runs without them and skips sync
// cycles until they appear.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateCalendar(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.IntervalSeconds <= 0 {
		return errors.New("sync.interval_seconds must be positive")
	}
	if c.Sync.DownloadTimeoutSeconds <= 0 {
		return errors.New("sync.download_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateCalendar() error {
	if c.Calendar.IntervalSeconds <= 0 {
		return errors.New("calendar.interval_seconds must be positive")
	}
	if c.Calendar.TimeoutSeconds <= 0 {
		return errors.New("calendar.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
