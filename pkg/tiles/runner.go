package tiles

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/pipeline"
	"github.com/tilegarden/spritepack/pkg/storage"
)

// DefaultBucket is the store bucket the PMTiles artifact is published to.
const DefaultBucket = "tiles"

// tileCacheControl matches the cache policy of the sprite artifacts.
const tileCacheControl = "3600"

// Options contains configuration for a tile build.
type Options struct {
	// Bucket is the object-store bucket to publish to.
	Bucket string `json:"bucket,omitempty"`

	// Logger receives per-stage progress. Defaults to the runner's logger.
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a tile build.
type Result struct {
	// FeatureCount is the number of features compiled into the archive.
	FeatureCount int

	// Skipped is true when the source view held no rows and nothing was
	// built or published.
	Skipped bool

	// Key is the published object key, empty when skipped.
	Key string

	// TotalTime is the wall time of the run.
	TotalTime time.Duration
}

// Runner encapsulates the fetch → compile → publish tile pipeline.
type Runner struct {
	Features   FeatureSource
	Store      storage.Store
	Tippecanoe *Tippecanoe
	Logger     *log.Logger
}

// NewRunner creates a tile runner. If tippecanoe is nil, the binary is
// resolved from PATH. If logger is nil, the default logger is used.
func NewRunner(features FeatureSource, store storage.Store, tippecanoe *Tippecanoe, logger *log.Logger) *Runner {
	if tippecanoe == nil {
		tippecanoe = NewTippecanoe("")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Features:   features,
		Store:      store,
		Tippecanoe: tippecanoe,
		Logger:     logger,
	}
}

// Execute fetches the article features, compiles them to PMTiles in a scoped
// workspace, and uploads the archive. An empty feature set is a successful
// no-op: nothing is compiled and the previously published archive stays as
// is. The workspace is removed on every exit path.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Bucket == "" {
		opts.Bucket = DefaultBucket
	}
	if err := errors.ValidateBucketName(opts.Bucket); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	start := time.Now()

	fc, err := r.Features.FetchFeatures(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTiles, err, "fetch features")
	}
	if len(fc.Features) == 0 {
		opts.Logger.Info("no features to process, skipping tile build")
		return &Result{Skipped: true, TotalTime: time.Since(start)}, nil
	}
	opts.Logger.Info("fetched features", "count", len(fc.Features))

	ws, err := pipeline.NewWorkspace()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			opts.Logger.Warn("failed to remove workspace", "path", ws.Root(), "error", err)
		}
	}()

	geojsonPath := filepath.Join(ws.Root(), geojsonFile)
	pmtilesPath := filepath.Join(ws.Root(), pmtilesFile)

	data, err := fc.Encode()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTiles, err, "encode geojson")
	}
	if err := os.WriteFile(geojsonPath, data, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTiles, err, "write geojson")
	}

	if err := r.Tippecanoe.Generate(ctx, geojsonPath, pmtilesPath); err != nil {
		return nil, err
	}
	opts.Logger.Info("compiled tiles", "layer", LayerName, "features", len(fc.Features))

	archive, err := os.ReadFile(pmtilesPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTiles, err, "read archive")
	}
	uploadOpts := storage.UploadOptions{
		ContentType:  "application/octet-stream",
		CacheControl: tileCacheControl,
		Upsert:       true,
	}
	if err := r.Store.Upload(ctx, opts.Bucket, pmtilesFile, archive, uploadOpts); err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, err, "upload %s", pmtilesFile)
	}

	result := &Result{
		FeatureCount: len(fc.Features),
		Key:          pmtilesFile,
		TotalTime:    time.Since(start),
	}
	opts.Logger.Info("published tiles",
		"bucket", opts.Bucket,
		"key", result.Key,
		"size", len(archive),
		"duration", result.TotalTime)

	return result, nil
}
