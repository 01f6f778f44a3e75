// Package blobstore provides storage abstraction for model artifacts.
//
// A Store serves immutable, named blobs: the model manifest, phrase tables
// and language models. Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, blobs are memory mapped
//   - MemoryStore: in-process blobs for tests and generated models
//   - s3.Store: Amazon S3 with range reads and managed downloads
//   - s3.PointerStore: DynamoDB-backed CURRENT pointer on top of a Store
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blobs may additionally implement Mappable for zero-copy access,
// RangeReader for streaming partial reads or Downloader for whole-object
// transfers. ReadAll picks the cheapest path available.
package blobstore
