package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-memory store for unit tests.
// All operations are safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string][]byte)}
}

// Seed inserts an object directly, bypassing upload semantics.
// Intended for test setup.
func (m *Memory) Seed(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string][]byte)
	}
	m.buckets[bucket][key] = append([]byte(nil), data...)
}

// List returns all objects in the bucket, sorted by name for determinism.
// Listing a bucket that was never written is not an error: it is empty.
func (m *Memory) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := make([]ObjectInfo, 0, len(m.buckets[bucket]))
	for name, data := range m.buckets[bucket] {
		objects = append(objects, ObjectInfo{Name: name, Size: int64(len(data))})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, nil
}

// Download returns a copy of the object's bytes.
func (m *Memory) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return append([]byte(nil), data...), nil
}

// Upload stores a copy of data under the key.
func (m *Memory) Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.buckets[bucket] == nil {
		m.buckets[bucket] = make(map[string][]byte)
	}
	if _, exists := m.buckets[bucket][key]; exists && !opts.Upsert {
		return fmt.Errorf("object %s/%s already exists", bucket, key)
	}
	m.buckets[bucket][key] = append([]byte(nil), data...)
	return nil
}

// Ensure Memory implements Store.
var _ Store = (*Memory)(nil)
