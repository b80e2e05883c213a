package sprite

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/raster"
)

// normalizeConcurrency bounds parallel decodes within one tier.
const normalizeConcurrency = 4

// Normalized is one source image normalized for one tier: a decoded raster
// of exactly CanvasSize×CanvasSize pixels, identified by the tier-qualified
// name (logical name plus tier suffix).
type Normalized struct {
	Name  string
	Tier  Tier
	Image *image.NRGBA
}

// Normalize produces the tier's canvas-aligned raster for one source.
// The source is scaled uniformly so it fits inside the tier canvas without
// cropping and centered on a fully transparent square (fit-inside-then-pad).
// Malformed source bytes fail the run with DECODE_FAILED rather than being
// skipped; a published atlas must contain every source icon.
func Normalize(src Source, tier Tier) (Normalized, error) {
	img, err := raster.Decode(src.Data)
	if err != nil {
		return Normalized{}, errors.Wrap(errors.ErrCodeDecode, err, "decode %s (tier %s)", src.Name, tier.Label())
	}
	return Normalized{
		Name:  tier.Qualify(src.Name),
		Tier:  tier,
		Image: raster.FitContain(img, tier.CanvasSize),
	}, nil
}

// NormalizeAll normalizes every source for the tier, fanning the independent
// per-image work out across a bounded worker group. Results keep the input
// order; the first failure cancels the remaining work.
func NormalizeAll(ctx context.Context, sources []Source, tier Tier) ([]Normalized, error) {
	normalized := make([]Normalized, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(normalizeConcurrency)
	for i, src := range sources {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			n, err := Normalize(src, tier)
			if err != nil {
				return err
			}
			normalized[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return normalized, nil
}
