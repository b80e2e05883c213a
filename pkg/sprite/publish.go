package sprite

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/raster"
	"github.com/tilegarden/spritepack/pkg/storage"
)

// artifactCacheControl is the Cache-Control max-age (seconds) served with
// published artifacts.
const artifactCacheControl = "3600"

// Publish encodes the tier's composite atlas and manifest and uploads both
// under their reserved names, replacing any prior atlas (idempotent upsert,
// not versioned). Returns the uploaded object keys.
//
// If stageDir is non-empty, the encoded artifacts are written there before
// uploading. The staged files live in the run's scoped workspace and are
// removed with it; they exist so a failed publish leaves something to
// inspect.
//
// A publish failure wraps the store error as PUBLISH_FAILED. Tiers are
// independent artifacts: a failure here never rolls back the other tier.
func Publish(ctx context.Context, store storage.Store, bucket, baseName string, tier Tier, atlas *image.NRGBA, manifest Manifest, stageDir string) ([]string, error) {
	atlasBytes, err := raster.EncodePNG(atlas)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, err, "encode atlas (tier %s)", tier.Label())
	}
	manifestBytes, err := manifest.Encode()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, err, "encode manifest (tier %s)", tier.Label())
	}

	atlasKey := tier.AtlasKey(baseName)
	manifestKey := tier.ManifestKey(baseName)

	if stageDir != "" {
		for key, data := range map[string][]byte{atlasKey: atlasBytes, manifestKey: manifestBytes} {
			if err := os.WriteFile(filepath.Join(stageDir, key), data, 0644); err != nil {
				return nil, errors.Wrap(errors.ErrCodePublish, err, "stage %s", key)
			}
		}
	}

	if err := store.Upload(ctx, bucket, atlasKey, atlasBytes, storage.UploadOptions{
		ContentType:  "image/png",
		CacheControl: artifactCacheControl,
		Upsert:       true,
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, err, "upload %s", atlasKey)
	}

	if err := store.Upload(ctx, bucket, manifestKey, manifestBytes, storage.UploadOptions{
		ContentType:  "application/json",
		CacheControl: artifactCacheControl,
		Upsert:       true,
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodePublish, err, "upload %s", manifestKey)
	}

	return []string{atlasKey, manifestKey}, nil
}
