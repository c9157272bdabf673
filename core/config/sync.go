package config

import (
	"time"

	"catalog-sync/core/executor"
	"catalog-sync/core/platform"
)

// Sync holds the settings of difference detection and sync execution.
type Sync struct {
	// PageSize is the page size of every paged fetch.
	PageSize int `mapstructure:"page_size" default:"50"`
	// MaxAttempts bounds calls per item, first attempt included.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// InitialInterval is the first retry delay.
	InitialInterval time.Duration `mapstructure:"initial_interval" default:"500ms"`
	// MaxInterval caps the retry delay.
	MaxInterval time.Duration `mapstructure:"max_interval" default:"10s"`
	// ItemTimeout bounds one item including its retries.
	ItemTimeout time.Duration `mapstructure:"item_timeout" default:"2m"`
	// Concurrency is the number of items of one job written at once.
	Concurrency int `mapstructure:"concurrency" default:"1"`
	// SnapshotTTL is how long fetched catalogs are reused between diffs. Zero disables caching.
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl" default:"5m"`
	// Schedule is a cron expression for unattended syncs. Empty disables scheduling.
	Schedule string `mapstructure:"schedule" default:""`
	// ScheduleSource is the source of truth of scheduled syncs.
	ScheduleSource string `mapstructure:"schedule_source" default:"woocommerce"`
	// ScheduleKinds are the entity kinds synced on schedule.
	ScheduleKinds []string `mapstructure:"schedule_kinds" default:"product,collection"`
}

// Executor returns the executor settings.
func (s Sync) Executor() executor.Config {
	return executor.Config{
		MaxAttempts:     s.MaxAttempts,
		InitialInterval: s.InitialInterval,
		MaxInterval:     s.MaxInterval,
		ItemTimeout:     s.ItemTimeout,
		Concurrency:     s.Concurrency,
	}
}

// Kinds returns ScheduleKinds as entity kinds.
func (s Sync) Kinds() []platform.Kind {
	out := make([]platform.Kind, 0, len(s.ScheduleKinds))
	for _, k := range s.ScheduleKinds {
		out = append(out, platform.Kind(k))
	}
	return out
}
