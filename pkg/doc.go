// Package pkg provides the core libraries for spritepack map asset generation.
//
// # Overview
//
// Spritepack builds the static assets a map renderer fetches at startup: a
// packed sprite atlas (one composite PNG plus a JSON coordinate manifest) per
// pixel-density tier, and optionally a PMTiles vector tile archive. The pkg
// directory is organized into four main areas:
//
//  1. [sprite] - Domain logic (source loading, normalization, packing, manifests)
//  2. [storage] - Object store backends (Supabase, local directory, Redis, memory)
//  3. [pipeline] - Orchestration (load → normalize → pack → manifest → publish)
//  4. [tiles] - Vector tile generation (GeoJSON assembly + tippecanoe)
//
// # Architecture
//
// The typical data flow through spritepack:
//
//	Object store bucket (icon PNGs)
//	         ↓
//	    [sprite] Load (list, filter, download)
//	         ↓  per density tier, concurrently
//	    [sprite] Normalize (fit-inside-then-pad to the tier canvas)
//	         ↓
//	    [sprite] Pack (binary-tree rectangle packing + composite render)
//	         ↓
//	    [sprite] Manifest (logical name → placement geometry)
//	         ↓
//	    [sprite] Publish (PNG + JSON upload)
//
// # Quick Start
//
// Build and publish both atlas tiers:
//
//	import (
//	    "context"
//	    "github.com/tilegarden/spritepack/pkg/pipeline"
//	    "github.com/tilegarden/spritepack/pkg/storage"
//	)
//
//	store := storage.NewSupabase(storage.SupabaseConfig{URL: url, Key: key})
//	runner := pipeline.NewRunner(store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Bucket:   "sprites",
//	    BaseName: "map-sprite",
//	})
//
// # Main Packages
//
// [sprite] - The atlas core: source set loading with output-name filtering,
// per-tier fit-inside-then-pad normalization, deterministic growing binary-tree
// rectangle packing, manifest construction, and artifact publishing.
//
// [raster] - Thin decode/resize/encode primitives over disintegration/imaging,
// treated as pure functions by the rest of the system.
//
// [storage] - The object store capability interface (List, Download, Upload)
// with Supabase Storage, local directory, Redis, and in-memory backends. The
// in-memory backend exists so the core can be tested without network or disk.
//
// [pipeline] - Drives the per-tier pipelines concurrently and owns the scoped
// run workspace that is removed unconditionally on completion or failure.
//
// [tiles] - The sibling pipeline: fetches article features, assembles GeoJSON,
// shells out to tippecanoe, and uploads the resulting PMTiles archive.
//
// [errors] - Structured error codes shared by all stages (EMPTY_SOURCE_SET,
// SOURCE_FETCH, DECODE_FAILED, PACKING_OVERFLOW, AMBIGUOUS_NAME,
// PUBLISH_FAILED, ...).
//
// [httputil] - Retry-with-backoff and shared HTTP client construction for the
// store and feature clients.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/sprite/...     # Packing core only
//
// [sprite]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/sprite
// [raster]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/raster
// [storage]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/storage
// [pipeline]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/pipeline
// [tiles]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/tiles
// [errors]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/tilegarden/spritepack/pkg/buildinfo
package pkg
