package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-sync/core/executor"
	"catalog-sync/core/platform"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// Record is the persisted form of a finished job.
type Record struct {
	ID                  string    `gorm:"column:id;primaryKey;size:36"`
	Type                string    `gorm:"column:type;size:32;index"`
	SourcePlatform      string    `gorm:"column:source_platform;size:32"`
	DestinationPlatform string    `gorm:"column:destination_platform;size:32"`
	Status              string    `gorm:"column:status;size:16;index"`
	Total               int       `gorm:"column:total"`
	Processed           int       `gorm:"column:processed"`
	Failed              int       `gorm:"column:failed"`
	Results             string    `gorm:"column:results;type:text"`
	Error               string    `gorm:"column:error;type:text"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name used by Record.
func (Record) TableName() string {
	return "sync_jobs"
}

func toRecord(job Job) (Record, error) {
	results, err := json.Marshal(job.Results)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode results: %w", err)
	}
	return Record{
		ID:                  job.ID,
		Type:                string(job.Type),
		SourcePlatform:      string(job.SourcePlatform),
		DestinationPlatform: string(job.DestinationPlatform),
		Status:              string(job.Status),
		Total:               job.Total,
		Processed:           job.Processed,
		Failed:              job.Failed,
		Results:             string(results),
		Error:               job.Error,
		CreatedAt:           job.CreatedAt,
		UpdatedAt:           job.UpdatedAt,
	}, nil
}

func (r Record) toJob() (Job, error) {
	job := Job{
		ID:                  r.ID,
		Type:                platform.Kind(r.Type),
		SourcePlatform:      platform.Platform(r.SourcePlatform),
		DestinationPlatform: platform.Platform(r.DestinationPlatform),
		Status:              Status(r.Status),
		Total:               r.Total,
		Processed:           r.Processed,
		Failed:              r.Failed,
		Results:             []executor.SyncResult{},
		Error:               r.Error,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
	if r.Results != "" {
		if err := json.Unmarshal([]byte(r.Results), &job.Results); err != nil {
			return Job{}, fmt.Errorf("failed to decode results of job %s: %w", r.ID, err)
		}
	}
	return job, nil
}

// Archive keeps finished jobs in the sync_jobs table.
type Archive struct {
	db *gorm.DB
}

// NewArchive creates an archive over db. Call Migrate once before use.
func NewArchive(db *gorm.DB) *Archive {
	return &Archive{db: db}
}

// Migrate creates or updates the sync_jobs table.
func (a *Archive) Migrate() error {
	return a.db.AutoMigrate(&Record{})
}

// Save upserts a finished job.
func (a *Archive) Save(ctx context.Context, job Job) error {
	rec, err := toRecord(job)
	if err != nil {
		return err
	}
	return a.db.WithContext(ctx).Save(&rec).Error
}

// Find loads a job by id.
func (a *Archive) Find(ctx context.Context, id string) (Job, error) {
	var rec Record
	err := a.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Job{}, ErrJobNotFound
	}
	if err != nil {
		return Job{}, err
	}
	return rec.toJob()
}

// Recent returns up to limit archived jobs, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Job, error) {
	var recs []Record
	if err := a.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Job, 0, len(recs))
	for _, r := range recs {
		job, err := r.toJob()
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, nil
}
