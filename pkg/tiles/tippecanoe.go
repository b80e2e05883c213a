package tiles

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/tilegarden/spritepack/pkg/errors"
)

// Tippecanoe shells out to the tippecanoe binary to compile GeoJSON into a
// PMTiles archive.
type Tippecanoe struct {
	// Path is the binary to invoke. Defaults to "tippecanoe" on PATH.
	Path string

	// run executes the command; tests swap it for a fake.
	run func(ctx context.Context, name string, args []string) ([]byte, error)
}

// NewTippecanoe creates a wrapper for the tippecanoe binary at path.
// An empty path resolves "tippecanoe" from PATH.
func NewTippecanoe(path string) *Tippecanoe {
	if path == "" {
		path = "tippecanoe"
	}
	return &Tippecanoe{
		Path: path,
		run: func(ctx context.Context, name string, args []string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

// args builds the tippecanoe invocation. Zooms 0-19 cover the full range the
// map serves; drop-rate 0 with densest-as-needed keeps every feature until a
// tile genuinely overflows.
func (t *Tippecanoe) args(geojsonPath, pmtilesPath string) []string {
	return []string{
		"-o", pmtilesPath,
		"-l", LayerName,
		"--minimum-zoom", "0",
		"--maximum-zoom", "19",
		"--force",
		"--preserve-input-order",
		"--drop-rate=0",
		"--cluster-distance=0",
		"--drop-densest-as-needed",
		"--gamma=1",
		"--extend-zooms-if-still-dropping",
		geojsonPath,
	}
}

// Generate compiles geojsonPath into a PMTiles archive at pmtilesPath.
// Command output is folded into the error on failure.
func (t *Tippecanoe) Generate(ctx context.Context, geojsonPath, pmtilesPath string) error {
	out, err := t.run(ctx, t.Path, t.args(geojsonPath, pmtilesPath))
	if err != nil {
		return errors.Wrap(errors.ErrCodeTiles, err,
			"tippecanoe failed: %s", fmt.Sprintf("%.512s", string(out)))
	}
	return nil
}
