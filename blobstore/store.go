package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// CurrentPointer is the conventional name of a blob (or pointer record)
// naming the manifest that should be served.
const CurrentPointer = "CURRENT"

// Store is a read-only source of immutable blobs.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// WritableStore is a Store that can also publish blobs.
type WritableStore interface {
	Store
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It follows io.ReaderAt semantics.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// Size returns the size of the blob in bytes.
	Size() int64
	io.Closer
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// RangeReader is an optional interface for Blobs that stream partial reads.
type RangeReader interface {
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// Downloader is an optional interface for Blobs that fetch their whole
// contents more efficiently than a sequence of reads.
type Downloader interface {
	Download(ctx context.Context) ([]byte, error)
}

// Throttle rate-limits bytes read from a store.
type Throttle interface {
	AcquireIO(ctx context.Context, bytes int) error
}
