package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConversion()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir()
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	// OutputDir stays relative when configured that way: it resolves
	// against the working directory of each run.
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	return nil
}

func (c *Config) normalizeConversion() {
	if c.Conversion.MaxRetries <= 0 {
		c.Conversion.MaxRetries = defaultMaxRetries
	}
	if c.Conversion.JPEGQuality <= 0 {
		c.Conversion.JPEGQuality = defaultJPEGQuality
	}
	c.Conversion.Backend = strings.ToLower(strings.TrimSpace(c.Conversion.Backend))
	if c.Conversion.Backend == "" {
		c.Conversion.Backend = defaultBackend
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
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
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
