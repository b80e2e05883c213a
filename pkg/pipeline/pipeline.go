// Package pipeline provides the core atlas build pipeline for Spritepack.
//
// This package implements the complete load → normalize → pack → publish
// pipeline that can be used by CLI and automation components. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: List and download source icons from the object store
//  2. Normalize: Fit every icon onto the tier's fixed square canvas
//  3. Pack: Place the normalized icons on a shared atlas canvas
//  4. Publish: Upload the atlas image and its manifest
//
// Sources are loaded once; each density tier then runs the remaining stages
// concurrently against its own copy of the pipeline state.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(store, logger)
//	opts := pipeline.Options{
//	    Bucket:   "sprites",
//	    BaseName: "map-sprite",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, tier := range result.Tiers {
//	    fmt.Println(tier.Keys)
//	}
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/sprite"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Automation
// =============================================================================

const (
	// DefaultBucket is the store bucket holding the source icons and the
	// published artifacts.
	DefaultBucket = "sprites"

	// DefaultBaseName is the reserved base name for published artifacts.
	// Source icons whose file name starts with this prefix are ignored so a
	// previously published atlas is never packed into its successor.
	DefaultBaseName = "map-sprite"

	// DefaultMaxCanvas mirrors sprite.DefaultMaxCanvas.
	DefaultMaxCanvas = sprite.DefaultMaxCanvas
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the atlas build pipeline.
type Options struct {
	// Bucket is the object-store bucket to read icons from and publish to.
	Bucket string `json:"bucket,omitempty"`

	// BaseName is the base name of the published artifacts.
	BaseName string `json:"base_name,omitempty"`

	// MaxCanvas caps the atlas canvas edge length in pixels.
	MaxCanvas int `json:"max_canvas,omitempty"`

	// Tiers selects the density tiers to build. Defaults to sprite.Tiers.
	Tiers []sprite.Tier `json:"-"`

	// Logger receives per-stage progress. Defaults to the runner's logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Bucket == "" {
		o.Bucket = DefaultBucket
	}
	if err := errors.ValidateBucketName(o.Bucket); err != nil {
		return err
	}
	if o.BaseName == "" {
		o.BaseName = DefaultBaseName
	}
	if o.MaxCanvas == 0 {
		o.MaxCanvas = DefaultMaxCanvas
	}
	if len(o.Tiers) == 0 {
		o.Tiers = sprite.Tiers
	}
	for _, tier := range o.Tiers {
		if tier.CanvasSize > o.MaxCanvas {
			return errors.New(errors.ErrCodeInvalidConfig,
				"max canvas smaller than tier canvas size")
		}
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tiers holds one entry per built density tier, in Options.Tiers order.
	Tiers []TierResult

	// Stats contains timing and size information.
	Stats Stats
}

// TierResult describes the artifacts published for one density tier.
type TierResult struct {
	// Tier identifies the density tier.
	Tier sprite.Tier

	// Keys are the object keys published for this tier (atlas, manifest).
	Keys []string

	// CanvasWidth and CanvasHeight are the atlas dimensions in pixels.
	CanvasWidth  int
	CanvasHeight int

	// IconCount is the number of icons placed on the atlas.
	IconCount int

	// BuildTime covers normalize, pack, and publish for this tier.
	BuildTime time.Duration
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SourceCount int
	LoadTime    time.Duration
	TotalTime   time.Duration
}
