package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tilegarden/spritepack/pkg/sprite"
	"github.com/tilegarden/spritepack/pkg/storage"
)

// Runner encapsulates pipeline execution against an object store.
//
// The Runner is stateless except for the store and logger - it doesn't
// retain pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Store  storage.Store
	Logger *log.Logger
}

// NewRunner creates a runner with the given store.
// If logger is nil, the default logger is used.
func NewRunner(store storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  store,
		Logger: logger,
	}
}

// Execute runs the complete load → normalize → pack → publish pipeline.
// Sources are loaded once; the configured tiers are then built concurrently,
// each staging its artifacts in a scoped workspace before upload. The first
// tier error cancels the remaining tiers.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	start := time.Now()

	ws, err := NewWorkspace()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Close(); err != nil {
			opts.Logger.Warn("failed to remove workspace", "path", ws.Root(), "error", err)
		}
	}()

	// Stage 1: Load (shared across tiers)
	loadStart := time.Now()
	sources, err := sprite.Load(ctx, r.Store, opts.Bucket, opts.BaseName)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{
		Tiers: make([]TierResult, len(opts.Tiers)),
	}
	result.Stats.SourceCount = len(sources)
	result.Stats.LoadTime = time.Since(loadStart)

	opts.Logger.Info("loaded sources",
		"bucket", opts.Bucket,
		"icons", len(sources),
		"duration", result.Stats.LoadTime)

	// Stages 2-4 per tier: normalize → pack → publish
	g, gctx := errgroup.WithContext(ctx)
	for i, tier := range opts.Tiers {
		g.Go(func() error {
			tr, err := r.buildTier(gctx, ws, sources, tier, opts)
			if err != nil {
				return fmt.Errorf("tier %s: %w", tier.Label(), err)
			}
			result.Tiers[i] = tr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

// buildTier runs the per-tier stages and publishes the tier's artifacts.
func (r *Runner) buildTier(ctx context.Context, ws *Workspace, sources []sprite.Source, tier sprite.Tier, opts Options) (TierResult, error) {
	start := time.Now()

	normalized, err := sprite.NormalizeAll(ctx, sources, tier)
	if err != nil {
		return TierResult{}, fmt.Errorf("normalize: %w", err)
	}

	packer := &sprite.Packer{MaxCanvas: opts.MaxCanvas}
	atlas, placements, err := packer.Pack(normalized)
	if err != nil {
		return TierResult{}, fmt.Errorf("pack: %w", err)
	}

	manifest, err := sprite.BuildManifest(placements, tier)
	if err != nil {
		return TierResult{}, fmt.Errorf("manifest: %w", err)
	}

	stage, err := ws.TierDir(tier.Label())
	if err != nil {
		return TierResult{}, err
	}
	keys, err := sprite.Publish(ctx, r.Store, opts.Bucket, opts.BaseName, tier, atlas, manifest, stage)
	if err != nil {
		return TierResult{}, fmt.Errorf("publish: %w", err)
	}

	tr := TierResult{
		Tier:         tier,
		Keys:         keys,
		CanvasWidth:  atlas.Bounds().Dx(),
		CanvasHeight: atlas.Bounds().Dy(),
		IconCount:    len(placements),
		BuildTime:    time.Since(start),
	}

	opts.Logger.Info("published atlas",
		"tier", tier.Label(),
		"icons", tr.IconCount,
		"canvas", fmt.Sprintf("%dx%d", tr.CanvasWidth, tr.CanvasHeight),
		"keys", keys,
		"duration", tr.BuildTime)

	return tr, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
