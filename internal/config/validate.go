package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.MaxRetries < 1 {
		return errors.New("conversion.max_retries must be at least 1")
	}
	if c.Conversion.JPEGQuality < 1 || c.Conversion.JPEGQuality > 100 {
		return errors.New("conversion.jpeg_quality must be between 1 and 100")
	}
	switch c.Conversion.Backend {
	case "auto", "sips", "magick":
	default:
		return fmt.Errorf("conversion.backend must be auto, sips, or magick (got %q)", c.Conversion.Backend)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}
