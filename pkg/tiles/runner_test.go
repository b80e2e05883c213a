package tiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/storage"
)

// staticFeatures is a FeatureSource serving a fixed collection.
type staticFeatures struct {
	fc  *FeatureCollection
	err error
}

func (s staticFeatures) FetchFeatures(ctx context.Context) (*FeatureCollection, error) {
	return s.fc, s.err
}

// fakeTippecanoe pretends to compile: it checks the staged GeoJSON exists and
// writes a placeholder archive to the -o path.
func fakeTippecanoe(t *testing.T) *Tippecanoe {
	t.Helper()
	tc := NewTippecanoe("")
	tc.run = func(ctx context.Context, name string, args []string) ([]byte, error) {
		in := args[len(args)-1]
		if _, err := os.Stat(in); err != nil {
			return nil, fmt.Errorf("input geojson not staged: %w", err)
		}
		i := slices.Index(args, "-o")
		if i < 0 || i+1 >= len(args) {
			return nil, fmt.Errorf("missing -o flag")
		}
		return nil, os.WriteFile(args[i+1], []byte("pmtiles-archive"), 0o644)
	}
	return tc
}

func testFeatures(n int) *FeatureCollection {
	features := make([]Feature, n)
	for i := range features {
		features[i] = Feature{
			Type:     "Feature",
			ID:       i,
			Geometry: json.RawMessage(`{"type":"Point","coordinates":[0,0]}`),
		}
	}
	return NewFeatureCollection(features)
}

func TestExecutePublishesArchive(t *testing.T) {
	store := storage.NewMemory()
	r := NewRunner(staticFeatures{fc: testFeatures(3)}, store, fakeTippecanoe(t), log.New(io.Discard))

	result, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Skipped {
		t.Error("Skipped = true, want false")
	}
	if result.FeatureCount != 3 {
		t.Errorf("FeatureCount = %d, want 3", result.FeatureCount)
	}
	if result.Key != "articles.pmtiles" {
		t.Errorf("Key = %q", result.Key)
	}

	data, err := store.Download(context.Background(), "tiles", "articles.pmtiles")
	if err != nil {
		t.Fatalf("download archive: %v", err)
	}
	if string(data) != "pmtiles-archive" {
		t.Errorf("archive content = %q", data)
	}
}

func TestExecuteEmptyFeaturesSkips(t *testing.T) {
	store := storage.NewMemory()
	tc := NewTippecanoe("")
	tc.run = func(ctx context.Context, name string, args []string) ([]byte, error) {
		t.Error("tippecanoe must not run for an empty feature set")
		return nil, nil
	}
	r := NewRunner(staticFeatures{fc: testFeatures(0)}, store, tc, log.New(io.Discard))

	result, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !result.Skipped {
		t.Error("Skipped = false, want true")
	}
	if _, err := store.Download(context.Background(), "tiles", "articles.pmtiles"); err == nil {
		t.Error("unexpected archive in store for empty feature set")
	}
}

func TestExecuteFetchFailure(t *testing.T) {
	r := NewRunner(staticFeatures{err: fmt.Errorf("connection refused")}, storage.NewMemory(), fakeTippecanoe(t), log.New(io.Discard))

	_, err := r.Execute(context.Background(), Options{})
	if errors.GetCode(err) != errors.ErrCodeTiles {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeTiles)
	}
}

func TestExecuteCompileFailure(t *testing.T) {
	tc := NewTippecanoe("")
	tc.run = func(ctx context.Context, name string, args []string) ([]byte, error) {
		return []byte("boom"), fmt.Errorf("exit status 1")
	}
	r := NewRunner(staticFeatures{fc: testFeatures(1)}, storage.NewMemory(), tc, log.New(io.Discard))

	_, err := r.Execute(context.Background(), Options{})
	if errors.GetCode(err) != errors.ErrCodeTiles {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeTiles)
	}
}

// failUploadStore fails every upload while delegating reads to a Memory store.
type failUploadStore struct {
	*storage.Memory
}

func (f failUploadStore) Upload(ctx context.Context, bucket, key string, data []byte, opts storage.UploadOptions) error {
	return fmt.Errorf("quota exceeded")
}

func TestExecuteUploadFailure(t *testing.T) {
	store := failUploadStore{Memory: storage.NewMemory()}
	r := NewRunner(staticFeatures{fc: testFeatures(1)}, store, fakeTippecanoe(t), log.New(io.Discard))

	_, err := r.Execute(context.Background(), Options{})
	if errors.GetCode(err) != errors.ErrCodePublish {
		t.Fatalf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodePublish)
	}
}
