// Package sprite implements the atlas-packing core: loading source icons from
// an object store, normalizing them to fixed per-density canvases, packing
// them into a minimal composite image, and emitting the coordinate manifest
// renderers consume.
//
// # Pipeline
//
// The package is organized around the data that flows through it:
//
//	[Source]     raw icon bytes, identity derived from the storage key
//	[Normalized] one canvas-aligned raster per (source, tier)
//	[Placement]  the packer's assigned rectangle inside the composite
//	manifest     logical name → geometry + pixel ratio
//
// Each stage is a free function so the packing core can be exercised with
// in-memory stores and synthetic images; orchestration (tier concurrency,
// workspaces, logging) lives in the pipeline package.
//
// # Density tiers
//
// Two fixed tiers are produced: standard density (26px canvas, pixelRatio 1)
// and high density (52px canvas, pixelRatio 2, "@2x" artifact suffix). The
// artifact naming convention (B.png/B.json and B@2x.png/B@2x.json for base
// name B) is load-bearing: map clients derive fetch URLs from it.
package sprite

import "strings"

// Tier is one output density configuration.
type Tier struct {
	CanvasSize int    // Normalized icon box edge in pixels
	PixelRatio int    // Device pixel ratio the tier serves
	Suffix     string // Artifact name suffix ("" or "@2x")
}

// Tiers is the fixed set of densities every run produces.
var Tiers = []Tier{
	{CanvasSize: 26, PixelRatio: 1, Suffix: ""},
	{CanvasSize: 52, PixelRatio: 2, Suffix: "@2x"},
}

// Qualify appends the tier suffix to a logical name, forming the identity of
// a normalized image. For the standard tier this is the identity function.
func (t Tier) Qualify(name string) string {
	return name + t.Suffix
}

// Strip removes the tier suffix from a qualified name, recovering the
// logical name. Stripping what Qualify produced always round-trips.
func (t Tier) Strip(qualified string) string {
	return strings.TrimSuffix(qualified, t.Suffix)
}

// AtlasKey returns the object key of the tier's composite image.
func (t Tier) AtlasKey(baseName string) string {
	return baseName + t.Suffix + ".png"
}

// ManifestKey returns the object key of the tier's manifest document.
func (t Tier) ManifestKey(baseName string) string {
	return baseName + t.Suffix + ".json"
}

// Label names the tier in logs and errors.
func (t Tier) Label() string {
	if t.Suffix == "" {
		return "1x"
	}
	return strings.TrimPrefix(t.Suffix, "@")
}
