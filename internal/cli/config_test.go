package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/storage"
)

func TestLoadConfigDefaults(t *testing.T) {
	// Run in an empty dir so no stray spritepack.toml is picked up.
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Store.Backend != backendSupabase {
		t.Errorf("Backend = %q, want %q", cfg.Store.Backend, backendSupabase)
	}
	if cfg.Sprites.Bucket != "sprites" || cfg.Sprites.BaseName != "map-sprite" {
		t.Errorf("sprites config = %+v", cfg.Sprites)
	}
	if cfg.Tiles.Bucket != "tiles" || cfg.Tiles.View != "external_articles_geojson" {
		t.Errorf("tiles config = %+v", cfg.Tiles)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spritepack.toml")
	content := `
[store]
backend = "local"
dir = "/var/lib/spritepack"

[sprites]
bucket = "icons"
max_canvas = 4096

[tiles]
bucket = "vector-tiles"
tippecanoe = "/usr/local/bin/tippecanoe"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Store.Backend != backendLocal || cfg.Store.Dir != "/var/lib/spritepack" {
		t.Errorf("store config = %+v", cfg.Store)
	}
	if cfg.Sprites.Bucket != "icons" || cfg.Sprites.MaxCanvas != 4096 {
		t.Errorf("sprites config = %+v", cfg.Sprites)
	}
	// Unset fields keep their defaults.
	if cfg.Sprites.BaseName != "map-sprite" {
		t.Errorf("BaseName = %q, want default", cfg.Sprites.BaseName)
	}
	if cfg.Tiles.Bucket != "vector-tiles" || cfg.Tiles.Tippecanoe != "/usr/local/bin/tippecanoe" {
		t.Errorf("tiles config = %+v", cfg.Tiles)
	}
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SPRITEPACK_STORE_BACKEND", "redis")
	t.Setenv("SPRITEPACK_REDIS_ADDR", "localhost:6379")
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_SECRET_KEY", "secret")
	t.Setenv("SPRITEPACK_SPRITES_BUCKET", "env-sprites")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Store.Backend != backendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Store.Backend)
	}
	if cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.Store.RedisAddr)
	}
	if cfg.Store.URL != "https://proj.supabase.co" || cfg.Store.Key != "secret" {
		t.Errorf("supabase env overrides not applied: %+v", cfg.Store)
	}
	if cfg.Sprites.Bucket != "env-sprites" {
		t.Errorf("Bucket = %q, want env-sprites", cfg.Sprites.Bucket)
	}
}

func TestNewStoreLocal(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: backendLocal, Dir: t.TempDir()}}

	store, closeStore, err := cfg.NewStore(context.Background())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer closeStore()

	if _, ok := store.(*storage.Local); !ok {
		t.Errorf("store = %T, want *storage.Local", store)
	}
}

func TestNewStoreSupabaseNeedsCreds(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: backendSupabase}}

	_, _, err := cfg.NewStore(context.Background())
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}

func TestNewStoreUnknownBackend(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: "s3"}}

	_, _, err := cfg.NewStore(context.Background())
	if errors.GetCode(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
	}
}
