package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/tiles"
)

// tilesOpts holds the command-line flags for the tiles command.
// Unset flags fall back to the config file values.
type tilesOpts struct {
	bucket     string // destination bucket
	view       string // PostgREST source view
	tippecanoe string // tippecanoe binary path
}

// tilesCommand creates the tiles command for compiling and publishing the
// article vector tiles.
func (c *CLI) tilesCommand() *cobra.Command {
	var opts tilesOpts

	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "Compile and publish the article vector tiles",
		Long: `Fetch the article features from the configured database view, compile them
into a PMTiles archive with tippecanoe, and publish the archive. An empty
view leaves the previously published archive untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTiles(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.bucket, "bucket", "", "destination bucket (default from config)")
	cmd.Flags().StringVar(&opts.view, "view", "", "PostgREST source view (default from config)")
	cmd.Flags().StringVar(&opts.tippecanoe, "tippecanoe", "", "tippecanoe binary path (default from config or PATH)")

	return cmd
}

func (c *CLI) runTiles(ctx context.Context, opts tilesOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if opts.bucket == "" {
		opts.bucket = cfg.Tiles.Bucket
	}
	if opts.view == "" {
		opts.view = cfg.Tiles.View
	}
	if opts.tippecanoe == "" {
		opts.tippecanoe = cfg.Tiles.Tippecanoe
	}
	if cfg.Store.URL == "" || cfg.Store.Key == "" {
		return errors.New(errors.ErrCodeInvalidConfig,
			"tiles needs store.url and store.key (or SUPABASE_URL and SUPABASE_SECRET_KEY)")
	}

	store, closeStore, err := cfg.NewStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	features := tiles.NewFeatureClient(tiles.FeatureClientConfig{
		URL:  cfg.Store.URL,
		Key:  cfg.Store.Key,
		View: opts.view,
	})
	runner := tiles.NewRunner(features, store, tiles.NewTippecanoe(opts.tippecanoe), logger)

	p := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Compiling vector tiles...")
	spinner.Start()

	result, err := runner.Execute(ctx, tiles.Options{Bucket: opts.bucket, Logger: logger})
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return fmt.Errorf("tiles: %w", err)
	}
	spinner.Stop()

	if result.Skipped {
		printInfo("No features to process, nothing published")
		return nil
	}

	p.done(fmt.Sprintf("Compiled %d features", result.FeatureCount))
	printSuccess("Published tiles to %s", opts.bucket)
	printFile(result.Key)
	return nil
}
