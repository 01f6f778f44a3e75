package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/smtgo/blobstore"
)

// Store serves model artifacts from a MinIO (or any S3-compatible) bucket.
// Names are joined onto prefix to form object keys.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore returns a Store reading keys below prefix in bucket,
// e.g. NewStore(client, "models", "de-en/").
func NewStore(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *Store) key(name string) string { return path.Join(s.prefix, name) }

func notFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// Open stats the object so that a missing artifact fails before any read.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	switch {
	case err == nil:
	case notFound(err):
		return nil, blobstore.ErrNotFound
	default:
		return nil, fmt.Errorf("stat s3://%s/%s: %w", s.bucket, key, err)
	}

	return &object{store: s, key: key, size: info.Size, etag: info.ETag}, nil
}

// Put uploads data as a single object.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Delete removes an artifact. Missing artifacts are ignored.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{}); err != nil && !notFound(err) {
		return err
	}
	return nil
}

// List returns artifact names below prefix, relative to the store prefix.
// The bucket listing is already in lexical key order.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	opts := minio.ListObjectsOptions{Prefix: s.key(prefix), Recursive: true}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name := strings.TrimPrefix(strings.TrimPrefix(obj.Key, s.prefix), "/"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

type object struct {
	store *Store
	key   string
	size  int64
	etag  string
}

func (o *object) Size() int64 { return o.size }

func (o *object) Close() error { return nil }

// get fetches bytes [off, off+length) pinned to the ETag seen by Open, so a
// model republished mid-load fails instead of mixing versions.
func (o *object) get(ctx context.Context, off, length int64) (*minio.Object, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetMatchETag(o.etag); err != nil {
		return nil, err
	}
	if off > 0 || length < o.size {
		if err := opts.SetRange(off, off+length-1); err != nil {
			return nil, err
		}
	}
	return o.store.client.GetObject(ctx, o.store.bucket, o.key, opts)
}

func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= o.size {
		return 0, io.EOF
	}
	want := min(int64(len(p)), o.size-off)

	obj, err := o.get(ctx, off, want)
	if err != nil {
		return 0, err
	}
	defer obj.Close()

	n, err := io.ReadFull(obj, p[:want])
	if err == nil && want < int64(len(p)) {
		err = io.EOF
	}
	return n, err
}

func (o *object) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= o.size {
		return nil, io.EOF
	}
	return o.get(ctx, off, min(length, o.size-off))
}

// Download fetches the whole object in one request.
func (o *object) Download(ctx context.Context) ([]byte, error) {
	obj, err := o.get(ctx, 0, o.size)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	buf := make([]byte, o.size)
	if _, err := io.ReadFull(obj, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
