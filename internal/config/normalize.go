package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeServer()
	c.normalizeReviewer()
	c.normalizeNotifications()
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
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeServer() {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultServerBind
	}
	c.Server.APIToken = strings.TrimSpace(c.Server.APIToken)
	if c.Server.APIToken == "" {
		if value, ok := os.LookupEnv("MODQ_API_TOKEN"); ok {
			c.Server.APIToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeReviewer() {
	c.Reviewer.ServerURL = strings.TrimRight(strings.TrimSpace(c.Reviewer.ServerURL), "/")
	if c.Reviewer.ServerURL == "" {
		c.Reviewer.ServerURL = defaultServerURL
	}
	c.Reviewer.APIToken = strings.TrimSpace(c.Reviewer.APIToken)
	if c.Reviewer.APIToken == "" {
		c.Reviewer.APIToken = c.Server.APIToken
	}
	c.Reviewer.Name = strings.TrimSpace(c.Reviewer.Name)
	if c.Reviewer.Name == "" {
		if value, ok := os.LookupEnv("USER"); ok {
			c.Reviewer.Name = strings.TrimSpace(value)
		}
	}
	if c.Reviewer.QueueCapacity == 0 {
		c.Reviewer.QueueCapacity = defaultQueueCapacity
	}
	if c.Reviewer.StatsPollInterval == 0 {
		c.Reviewer.StatsPollInterval = defaultStatsPollInterval
	}
	if c.Reviewer.RequestTimeout == 0 {
		c.Reviewer.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
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
