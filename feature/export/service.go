package export

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/core/jobs"
	"catalog-sync/core/platform"
	"catalog-sync/core/storage"

	"go.uber.org/zap"
)

// Prefix is the object prefix all exports are written under.
const Prefix = "exports/"

// Result describes one uploaded export.
type Result struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket"`
	Format Format `json:"format"`
	Count  int    `json:"count"`
	Size   int64  `json:"size"`
}

// Service exports platform catalogs to object storage.
type Service struct {
	resolver jobs.Resolver
	client   storage.Client
	bucket   string
	region   string
	pageSize int
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates an export service writing to bucket.
func NewService(resolver jobs.Resolver, client storage.Client, bucket, region string, pageSize int, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		client:   client,
		bucket:   bucket,
		region:   region,
		pageSize: pageSize,
		logger:   logger,
		now:      time.Now,
	}
}

// ObjectKey returns exports/<platform>/<kind>-<timestamp>.<ext>.
func ObjectKey(p platform.Platform, kind platform.Kind, format Format, at time.Time) string {
	return fmt.Sprintf("%s%s/%s-%s.%s", Prefix, p, kind, at.UTC().Format("20060102T150405Z"), format)
}

// Export drains every page of kind from p and uploads it in format.
func (s *Service) Export(ctx context.Context, p platform.Platform, kind platform.Kind, format Format) (Result, error) {
	client, err := s.resolver.Client(ctx, p)
	if err != nil {
		return Result{}, err
	}

	entities, err := platform.Drain(ctx, client, kind, s.pageSize, nil)
	if err != nil {
		return Result{}, err
	}

	var data []byte
	switch format {
	case FormatJSON:
		data, err = JSON(entities)
	default:
		format = FormatCSV
		data, err = CSV(kind, entities)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode %s export: %w", format, err)
	}

	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return Result{}, err
	}
	key := ObjectKey(p, kind, format, s.now())
	info, err := storage.Upload(ctx, s.client, s.bucket, key, format.ContentType(), data)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("Catalog exported",
		zap.String("platform", string(p)),
		zap.String("kind", string(kind)),
		zap.String("key", key),
		zap.Int("count", len(entities)),
	)
	return Result{Key: key, Bucket: s.bucket, Format: format, Count: len(entities), Size: info.Size}, nil
}

// List returns the keys of previous exports, optionally narrowed to one platform.
func (s *Service) List(ctx context.Context, p platform.Platform) ([]string, error) {
	prefix := Prefix
	if p != "" {
		prefix += string(p) + "/"
	}
	return storage.List(ctx, s.client, s.bucket, prefix)
}
