package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAuth(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMaintenance(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.APIBind != "" {
		if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
			return fmt.Errorf("paths.api_bind %q is not a host:port address: %w", c.Paths.APIBind, err)
		}
	}
	return nil
}

func (c *Config) validateAuth() error {
	if c.Auth.SessionTTLMinutes <= 0 {
		return errors.New("auth.session_ttl_minutes must be positive")
	}
	if c.Auth.SeedUsername == "" {
		return errors.New("auth.seed_username must be set")
	}
	if c.Auth.SeedPassword == "" {
		return errors.New("auth.seed_password must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateMaintenance() error {
	if c.Maintenance.SessionPurge == "" {
		return nil
	}
	if _, err := cron.ParseStandard(c.Maintenance.SessionPurge); err != nil {
		return fmt.Errorf("maintenance.session_purge %q is not a valid cron spec: %w", c.Maintenance.SessionPurge, err)
	}
	return nil
}
