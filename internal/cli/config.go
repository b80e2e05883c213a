package cli

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/pipeline"
	"github.com/tilegarden/spritepack/pkg/storage"
	"github.com/tilegarden/spritepack/pkg/tiles"
)

// defaultConfigFile is looked up in the working directory when no --config
// flag is given. A missing default file is not an error.
const defaultConfigFile = "spritepack.toml"

// Store backends selectable via config or environment.
const (
	backendSupabase = "supabase"
	backendLocal    = "local"
	backendRedis    = "redis"
)

// Config is the spritepack.toml schema with environment overrides applied.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Sprites SpritesConfig `toml:"sprites"`
	Tiles   TilesConfig   `toml:"tiles"`
}

// StoreConfig selects and configures the object-store backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // supabase (default), local, redis

	// Supabase
	URL string `toml:"url"`
	Key string `toml:"key"`

	// Local
	Dir string `toml:"dir"`

	// Redis
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// SpritesConfig configures the sprite atlas build.
type SpritesConfig struct {
	Bucket    string `toml:"bucket"`
	BaseName  string `toml:"base_name"`
	MaxCanvas int    `toml:"max_canvas"`
}

// TilesConfig configures the vector tile build.
type TilesConfig struct {
	Bucket     string `toml:"bucket"`
	View       string `toml:"view"`
	Tippecanoe string `toml:"tippecanoe"`
}

// LoadConfig reads the TOML config at path and applies environment overrides.
// An empty path means the default file, which may be absent; an explicit path
// must exist.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{Backend: backendSupabase},
		Sprites: SpritesConfig{
			Bucket:    pipeline.DefaultBucket,
			BaseName:  pipeline.DefaultBaseName,
			MaxCanvas: pipeline.DefaultMaxCanvas,
		},
		Tiles: TilesConfig{
			Bucket: tiles.DefaultBucket,
			View:   tiles.DefaultView,
		},
	}

	optional := path == ""
	if optional {
		path = defaultConfigFile
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !(optional && os.IsNotExist(err)) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets the environment override file values. SUPABASE_URL and
// SUPABASE_SECRET_KEY match the names the deployment already exports for the
// database jobs.
func (c *Config) applyEnv() {
	setFromEnv(&c.Store.Backend, "SPRITEPACK_STORE_BACKEND")
	setFromEnv(&c.Store.URL, "SUPABASE_URL")
	setFromEnv(&c.Store.Key, "SUPABASE_SECRET_KEY")
	setFromEnv(&c.Store.Dir, "SPRITEPACK_STORE_DIR")
	setFromEnv(&c.Store.RedisAddr, "SPRITEPACK_REDIS_ADDR")
	setFromEnv(&c.Sprites.Bucket, "SPRITEPACK_SPRITES_BUCKET")
	setFromEnv(&c.Tiles.Bucket, "SPRITEPACK_TILES_BUCKET")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// NewStore builds the configured store backend. The returned closer releases
// backend resources and is a no-op for backends without connections.
func (c *Config) NewStore(ctx context.Context) (storage.Store, func() error, error) {
	noop := func() error { return nil }

	switch c.Store.Backend {
	case backendSupabase:
		if c.Store.URL == "" || c.Store.Key == "" {
			return nil, nil, errors.New(errors.ErrCodeInvalidConfig,
				"supabase backend needs store.url and store.key (or SUPABASE_URL and SUPABASE_SECRET_KEY)")
		}
		return storage.NewSupabase(storage.SupabaseConfig{URL: c.Store.URL, Key: c.Store.Key}), noop, nil

	case backendLocal:
		if c.Store.Dir == "" {
			return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "local backend needs store.dir")
		}
		store, err := storage.NewLocal(c.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case backendRedis:
		if c.Store.RedisAddr == "" {
			return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "redis backend needs store.redis_addr")
		}
		store, err := storage.NewRedis(ctx, storage.RedisConfig{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			DB:       c.Store.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown store backend %q (must be supabase, local, or redis)", c.Store.Backend)
	}
}
