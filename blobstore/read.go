package blobstore

import (
	"context"
	"fmt"
	"io"
)

const readChunkSize = 1 << 20

// ReadAll returns the full contents of the named blob.
//
// Mappable blobs are returned zero-copy; release must be called once data
// is no longer referenced. For every other blob data is a private copy and
// release is a no-op. Bytes that cross the network or disk are charged to
// th, which may be nil.
func ReadAll(ctx context.Context, s Store, name string, th Throttle) (data []byte, release func() error, err error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}

	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			_ = b.Close()
			return nil, nil, fmt.Errorf("map %s: %w", name, err)
		}
		return data, b.Close, nil
	}

	defer b.Close()

	data, err = readBlob(ctx, b, th)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, func() error { return nil }, nil
}

func readBlob(ctx context.Context, b Blob, th Throttle) ([]byte, error) {
	size := b.Size()

	if d, ok := b.(Downloader); ok {
		data, err := d.Download(ctx)
		if err != nil {
			return nil, err
		}
		if th != nil {
			if err := th.AcquireIO(ctx, len(data)); err != nil {
				return nil, err
			}
		}
		return data, nil
	}

	if rr, ok := b.(RangeReader); ok {
		rc, err := rr.ReadRange(ctx, 0, size)
		if err != nil {
			return nil, err
		}
		defer rc.Close()

		buf := make([]byte, size)
		if _, err := io.ReadFull(throttled(ctx, rc, th), buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	buf := make([]byte, size)
	for off := int64(0); off < size; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(off+readChunkSize, size)
		if th != nil {
			if err := th.AcquireIO(ctx, int(end-off)); err != nil {
				return nil, err
			}
		}
		n, err := b.ReadAt(ctx, buf[off:end], off)
		if err != nil && !(err == io.EOF && off+int64(n) == size) {
			return nil, err
		}
		off += int64(n)
		if n == 0 {
			return nil, io.ErrUnexpectedEOF
		}
	}
	return buf, nil
}

type throttledReader struct {
	ctx context.Context
	r   io.Reader
	th  Throttle
}

func throttled(ctx context.Context, r io.Reader, th Throttle) io.Reader {
	if th == nil {
		return r
	}
	return &throttledReader{ctx: ctx, r: r, th: th}
}

func (t *throttledReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.th.AcquireIO(t.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
