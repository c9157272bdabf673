package health

import (
	"context"
	"time"

	"catalog-sync/core/connection"
	"catalog-sync/core/database"
	"catalog-sync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusDisabled = "disabled"
	StatusDegraded = "degraded"
)

// ComponentReport is the state of one dependency.
type ComponentReport struct {
	Status  string   `json:"status"`
	Error   string   `json:"error,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Report aggregates every check. Disconnected platforms are reported but do
// not degrade the service.
type Report struct {
	Status      string              `json:"status"`
	Storage     ComponentReport     `json:"storage"`
	Database    ComponentReport     `json:"database"`
	Connections []connection.Status `json:"connections"`
	CheckedAt   time.Time           `json:"checked_at"`
}

// Checker reports the state of platform connections.
type Checker interface {
	Check(ctx context.Context) []connection.Status
}

// Service runs health checks.
type Service struct {
	client  storage.Client
	bucket  string
	db      *gorm.DB
	models  []any
	checker Checker
	logger  *zap.Logger
}

// NewService creates a health service. client and db may be nil when the
// dependency is not configured; models are the tables the database must hold.
func NewService(client storage.Client, bucket string, db *gorm.DB, models []any, checker Checker, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		bucket:  bucket,
		db:      db,
		models:  models,
		checker: checker,
		logger:  logger,
	}
}

// CheckStorage verifies the export bucket exists.
func (s *Service) CheckStorage(ctx context.Context) ComponentReport {
	if s.client == nil {
		return ComponentReport{Status: StatusDisabled}
	}
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return ComponentReport{Status: StatusError, Error: err.Error()}
	}
	if !exists {
		// Created lazily by the first export.
		return ComponentReport{Status: StatusOK, Missing: []string{s.bucket}}
	}
	return ComponentReport{Status: StatusOK}
}

// CheckDatabase pings the database and reports tables that are not migrated.
func (s *Service) CheckDatabase(ctx context.Context) ComponentReport {
	if s.db == nil {
		return ComponentReport{Status: StatusDisabled}
	}
	if err := database.Ping(ctx, s.db); err != nil {
		return ComponentReport{Status: StatusError, Error: err.Error()}
	}
	missing, err := database.MissingTables(s.db, s.models...)
	if err != nil {
		return ComponentReport{Status: StatusError, Error: err.Error()}
	}
	if len(missing) > 0 {
		return ComponentReport{Status: StatusError, Error: "schema is not migrated", Missing: missing}
	}
	return ComponentReport{Status: StatusOK}
}

// CheckConnections pings every platform connection.
func (s *Service) CheckConnections(ctx context.Context) []connection.Status {
	if s.checker == nil {
		return []connection.Status{}
	}
	return s.checker.Check(ctx)
}

// Check runs every check.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{
		Status:      StatusOK,
		Storage:     s.CheckStorage(ctx),
		Database:    s.CheckDatabase(ctx),
		Connections: s.CheckConnections(ctx),
		CheckedAt:   time.Now().UTC(),
	}
	if r.Storage.Status == StatusError || r.Database.Status == StatusError {
		r.Status = StatusDegraded
	}
	return r
}
