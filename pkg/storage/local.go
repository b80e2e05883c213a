package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/tilegarden/spritepack/pkg/errors"
)

// Local is a directory-backed store. Each bucket is a subdirectory of the
// root; object keys map to file paths below it, with forward slashes as
// separators regardless of platform.
type Local struct {
	root string
}

// NewLocal creates a directory-backed store rooted at dir.
// The directory is created if it doesn't exist.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Local{root: dir}, nil
}

// List walks the bucket directory and returns all files, sorted by key.
// A missing bucket directory is an empty bucket, not an error.
func (l *Local) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	if err := errors.ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	dir := filepath.Join(l.root, bucket)
	var objects []ObjectInfo
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		objects = append(objects, ObjectInfo{
			Name:      filepath.ToSlash(rel),
			Size:      info.Size(),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// Download reads one object's bytes from disk.
func (l *Local) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	path, err := l.path(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return data, err
}

// Upload writes one object to disk, creating parent directories as needed.
func (l *Local) Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error {
	path, err := l.path(bucket, key)
	if err != nil {
		return err
	}
	if !opts.Upsert {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("object %s/%s already exists", bucket, key)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// path maps a bucket/key pair to a filesystem path, rejecting keys that
// would escape the bucket directory.
func (l *Local) path(bucket, key string) (string, error) {
	if err := errors.ValidateBucketName(bucket); err != nil {
		return "", err
	}
	if err := errors.ValidateObjectKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.root, bucket, filepath.FromSlash(key)), nil
}

// Ensure Local implements Store.
var _ Store = (*Local)(nil)
