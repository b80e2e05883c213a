package sprite

import (
	"encoding/json"
	"strings"

	"github.com/tilegarden/spritepack/pkg/errors"
)

// ManifestEntry is one icon's geometry within the composite atlas, as served
// to renderers. The JSON field names are part of the client contract.
type ManifestEntry struct {
	X          int `json:"x"`
	Y          int `json:"y"`
	Width      int `json:"width"`
	Height     int `json:"height"`
	PixelRatio int `json:"pixelRatio"`
}

// Manifest maps logical icon names to their placements for one tier.
type Manifest map[string]ManifestEntry

// BuildManifest maps each placement back to its logical name by stripping
// the tier suffix, carrying the geometry over verbatim plus the tier's pixel
// ratio.
//
// Logical names must be unique within a tier, compared case-insensitively:
// map styles reference icons by name through case-folding asset pipelines,
// so "icon" and "ICON" would collide downstream. A collision is an
// AMBIGUOUS_NAME error and aborts the tier.
func BuildManifest(placements []Placement, tier Tier) (Manifest, error) {
	manifest := make(Manifest, len(placements))
	seen := make(map[string]string, len(placements))

	for _, pl := range placements {
		name := tier.Strip(pl.Name)
		folded := strings.ToLower(name)
		if prev, ok := seen[folded]; ok {
			return nil, errors.New(errors.ErrCodeAmbiguousName,
				"source names %q and %q resolve to the same icon name (tier %s)", prev, name, tier.Label())
		}
		seen[folded] = name

		manifest[name] = ManifestEntry{
			X:          pl.X,
			Y:          pl.Y,
			Width:      pl.Width,
			Height:     pl.Height,
			PixelRatio: tier.PixelRatio,
		}
	}
	return manifest, nil
}

// Encode serializes the manifest as the JSON document uploaded next to the
// atlas image.
func (m Manifest) Encode() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
