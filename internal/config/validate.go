package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", parsed.Scheme)
	}
	if c.API.TimeoutSeconds <= 0 {
		return errors.New("api.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if err := ensurePositiveMap(map[string]int{
		"media.max_images":         c.Media.MaxImages,
		"media.max_images_edit":    c.Media.MaxImagesEdit,
		"media.max_total_image_mb": c.Media.MaxTotalImageMB,
		"media.image_max_edge":     c.Media.ImageMaxEdge,
		"media.video_max_mb":       c.Media.VideoMaxMB,
		"media.video_max_seconds":  c.Media.VideoMaxSeconds,
	}); err != nil {
		return err
	}
	if c.Media.ImageQuality < 1 || c.Media.ImageQuality > 100 {
		return errors.New("media.image_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "color":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console, json or color)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", strings.TrimSpace(key))
		}
	}
	return nil
}
