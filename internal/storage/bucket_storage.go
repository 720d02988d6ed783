package storage

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// BucketStorage stores blobs in a gocloud bucket. The file driver backs local
// development (served under /uploads); the memory driver backs tests.
type BucketStorage struct {
	bucket  *blob.Bucket
	baseURL string
}

// NewFileStorage opens a directory-backed bucket, creating dir when missing.
func NewFileStorage(dir, baseURL string) (*BucketStorage, error) {
	bucket, err := fileblob.OpenBucket(dir, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open file bucket %s: %w", dir, err)
	}
	return &BucketStorage{bucket: bucket, baseURL: baseURL}, nil
}

// NewMemoryStorage returns a bucket that lives in process memory.
func NewMemoryStorage(baseURL string) *BucketStorage {
	return &BucketStorage{bucket: memblob.OpenBucket(nil), baseURL: baseURL}
}

func (s *BucketStorage) Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error) {
	w, err := s.bucket.NewWriter(ctx, path, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to open writer for %s: %w", path, err)
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", path, err)
	}
	return path, nil
}

func (s *BucketStorage) PublicURL(path string) string {
	return joinURL(s.baseURL, path)
}

// Remove deletes each path. Missing objects are not an error.
func (s *BucketStorage) Remove(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if err := s.bucket.Delete(ctx, p); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return fmt.Errorf("failed to delete %s: %w", p, err)
		}
	}
	return nil
}

// Exists reports whether path is present in the bucket.
func (s *BucketStorage) Exists(ctx context.Context, path string) (bool, error) {
	return s.bucket.Exists(ctx, path)
}

func (s *BucketStorage) Close() error {
	return s.bucket.Close()
}
