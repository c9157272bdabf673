// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client with the small surface the exporter and the health
// check need. The abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easy
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - EnsureBucket: creates the export bucket on first use.
//   - Upload: writes an in-memory export with its content type.
//   - List: collects object keys under a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
