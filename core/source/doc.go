// Package source opens schema and data sources by name.
//
// FileOpener reads the local filesystem and ObjectOpener reads an S3/MinIO
// bucket through core/storage. Both decompress names ending in .gz, so the
// survey's .dat.gz files can be decoded as plain line streams.
package source
