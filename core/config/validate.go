package config

import (
	"fmt"

	"catalog-sync/core/platform"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	if c.Server.Port == "" {
		err = multierr.Append(err, fmt.Errorf("server.port is required"))
	}
	if _, lvlErr := zapcore.ParseLevel(c.Log.Level); lvlErr != nil {
		err = multierr.Append(err, fmt.Errorf("log.level: %w", lvlErr))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		err = multierr.Append(err, fmt.Errorf("log.format must be json or console, got %q", c.Log.Format))
	}
	if c.Database.Enabled {
		switch c.Database.Driver {
		case "mysql", "sqlite":
		default:
			err = multierr.Append(err, fmt.Errorf("database.driver must be mysql or sqlite, got %q", c.Database.Driver))
		}
	}

	err = multierr.Append(err, c.Sync.validate())

	if c.WooCommerce.IsConfigured() {
		if wErr := c.WooCommerce.Validate(); wErr != nil {
			err = multierr.Append(err, wErr)
		}
	}
	if c.Shopify.IsConfigured() {
		if sErr := c.Shopify.Validate(); sErr != nil {
			err = multierr.Append(err, sErr)
		}
	}
	return err
}

func (s Sync) validate() error {
	var err error
	if s.PageSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("sync.page_size must be positive"))
	}
	if s.MaxAttempts <= 0 {
		err = multierr.Append(err, fmt.Errorf("sync.max_attempts must be positive"))
	}
	if s.MaxInterval < s.InitialInterval {
		err = multierr.Append(err, fmt.Errorf("sync.max_interval must not be below sync.initial_interval"))
	}
	if s.Concurrency <= 0 {
		err = multierr.Append(err, fmt.Errorf("sync.concurrency must be positive"))
	}
	if s.SnapshotTTL < 0 {
		err = multierr.Append(err, fmt.Errorf("sync.snapshot_ttl must not be negative"))
	}

	if s.Schedule == "" {
		return err
	}
	if _, cronErr := cron.ParseStandard(s.Schedule); cronErr != nil {
		err = multierr.Append(err, fmt.Errorf("sync.schedule: %w", cronErr))
	}
	if !platform.Platform(s.ScheduleSource).IsValid() {
		err = multierr.Append(err, fmt.Errorf("sync.schedule_source: unknown platform %q", s.ScheduleSource))
	}
	for _, k := range s.Kinds() {
		if !k.IsValid() {
			err = multierr.Append(err, fmt.Errorf("sync.schedule_kinds: unknown kind %q", k))
		}
	}
	return err
}
