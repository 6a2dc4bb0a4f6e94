// Package storage wraps the MinIO client for S3-compatible object storage.
//
// Survey dictionaries and data files can be read straight from a bucket, and
// integrity reports can be published back to it. Both AWS S3 and self-hosted
// MinIO are supported.
//
// # Client Interface
//
// Client is the narrow set of operations the application needs. It exists so
// tests can substitute the testify mock in core/storage/mocks.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, "surveys")
package storage
