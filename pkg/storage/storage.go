// Package storage provides object store backends for spritepack.
//
// This package defines the narrow capability interface the pipeline depends
// on (list, download, upload) with implementations for different backends:
//   - supabase: Supabase Storage over HTTP for production runs
//   - local: directory-backed store for development and roundtrip tests
//   - redis: Redis-backed store for deployments that stage assets in Redis
//   - memory: in-memory store for unit tests
//
// # Architecture
//
// Buckets hold named binary blobs. The pipeline only ever lists a bucket,
// downloads individual objects, and uploads finished artifacts with
// [UploadOptions] (content type, cache control, upsert). Errors are surfaced
// as-is; callers wrap them with their own error codes.
//
// # Usage
//
// Create a store:
//
//	// Production
//	store := storage.NewSupabase(storage.SupabaseConfig{
//	    URL: "https://abc.supabase.co",
//	    Key: secretKey,
//	})
//
//	// Development
//	store, err := storage.NewLocal("./testdata/buckets")
//
//	// Tests
//	store := storage.NewMemory()
package storage

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a requested object or bucket does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrNetwork is returned for transport failures (timeouts, connection
	// errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// ObjectInfo describes one stored object as returned by [Store.List].
type ObjectInfo struct {
	Name      string    // Object key within the bucket
	Size      int64     // Size in bytes, zero if the backend does not report it
	UpdatedAt time.Time // Last modification time, zero if unknown
}

// UploadOptions controls how an object is written.
type UploadOptions struct {
	ContentType  string // MIME type served with the object
	CacheControl string // Cache-Control max-age in seconds, empty for none
	Upsert       bool   // Overwrite an existing object with the same key
}

// Store is the object store capability the pipeline depends on.
// Implementations must be safe for concurrent use: the two atlas tiers
// publish from independent goroutines.
type Store interface {
	// List returns all objects in the bucket.
	List(ctx context.Context, bucket string) ([]ObjectInfo, error)

	// Download returns the bytes of one object.
	// Returns [ErrNotFound] if the object does not exist.
	Download(ctx context.Context, bucket, key string) ([]byte, error)

	// Upload writes an object. With opts.Upsert an existing object with the
	// same key is replaced; without it the write fails if the key exists.
	Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error
}
