package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Addr     string // host:port
	Password string // empty for no auth
	DB       int
}

// Redis is a Store backed by Redis hashes: one hash per bucket, object keys
// as hash fields. Useful for deployments that stage assets in Redis rather
// than an object store proper; sizes and timestamps are not tracked.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store and verifies connectivity.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{client: client}, nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// bucketKey namespaces hashes so unrelated keys in the same Redis DB are
// never touched.
func bucketKey(bucket string) string {
	return "spritepack:bucket:" + bucket
}

// List returns all objects in the bucket, sorted by name.
func (r *Redis) List(ctx context.Context, bucket string) ([]ObjectInfo, error) {
	names, err := r.client.HKeys(ctx, bucketKey(bucket)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hkeys: %w", err)
	}
	sort.Strings(names)

	objects := make([]ObjectInfo, 0, len(names))
	for _, name := range names {
		objects = append(objects, ObjectInfo{Name: name})
	}
	return objects, nil
}

// Download returns one object's bytes.
func (r *Redis) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	data, err := r.client.HGet(ctx, bucketKey(bucket), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget: %w", err)
	}
	return data, nil
}

// Upload stores one object. Without opts.Upsert the write fails if the key
// already exists (HSETNX semantics).
func (r *Redis) Upload(ctx context.Context, bucket, key string, data []byte, opts UploadOptions) error {
	if opts.Upsert {
		if err := r.client.HSet(ctx, bucketKey(bucket), key, data).Err(); err != nil {
			return fmt.Errorf("redis hset: %w", err)
		}
		return nil
	}

	set, err := r.client.HSetNX(ctx, bucketKey(bucket), key, data).Result()
	if err != nil {
		return fmt.Errorf("redis hsetnx: %w", err)
	}
	if !set {
		return fmt.Errorf("object %s/%s already exists", bucket, key)
	}
	return nil
}

// Ensure Redis implements Store.
var _ Store = (*Redis)(nil)
