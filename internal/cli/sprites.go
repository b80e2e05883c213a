package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/pipeline"
)

// spritesOpts holds the command-line flags for the sprites command.
// Unset flags fall back to the config file values.
type spritesOpts struct {
	bucket    string // source and destination bucket
	baseName  string // published artifact base name
	maxCanvas int    // atlas canvas edge cap in pixels
}

// spritesCommand creates the sprites command for building and publishing the
// atlases. All density tiers are built in one run so the published set is
// always consistent.
func (c *CLI) spritesCommand() *cobra.Command {
	var opts spritesOpts

	cmd := &cobra.Command{
		Use:   "sprites",
		Short: "Build and publish the sprite atlases",
		Long: `Build the sprite atlases from the icons in the configured bucket and publish
them together with their JSON manifests. Every density tier is rebuilt in the
same run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSprites(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "source and destination bucket (default from config)")
	cmd.Flags().StringVar(&opts.baseName, "base-name", "", "published artifact base name (default from config)")
	cmd.Flags().IntVar(&opts.maxCanvas, "max-canvas", 0, "atlas canvas edge cap in pixels (default from config)")

	return cmd
}

func (c *CLI) runSprites(ctx context.Context, opts spritesOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if opts.bucket == "" {
		opts.bucket = cfg.Sprites.Bucket
	}
	if opts.baseName == "" {
		opts.baseName = cfg.Sprites.BaseName
	}
	if opts.maxCanvas == 0 {
		opts.maxCanvas = cfg.Sprites.MaxCanvas
	}

	store, closeStore, err := cfg.NewStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	p := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing atlases from %s...", opts.bucket))
	spinner.Start()

	result, err := pipeline.NewRunner(store, logger).Execute(ctx, pipeline.Options{
		Bucket:    opts.bucket,
		BaseName:  opts.baseName,
		MaxCanvas: opts.maxCanvas,
		Logger:    logger,
	})
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return fmt.Errorf("sprites: %w", err)
	}
	spinner.Stop()

	published := 0
	for _, tier := range result.Tiers {
		published += len(tier.Keys)
	}
	p.done(fmt.Sprintf("Packed %d icons into %d atlases", result.Stats.SourceCount, len(result.Tiers)))

	printSuccess("Published %d artifacts to %s", published, opts.bucket)
	for _, tier := range result.Tiers {
		printDetail("%s: %d icons on %dx%d", tier.Tier.Label(), tier.IconCount, tier.CanvasWidth, tier.CanvasHeight)
		for _, key := range tier.Keys {
			printFile(key)
		}
	}
	return nil
}
