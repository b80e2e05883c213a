package sprite

import (
	"context"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tilegarden/spritepack/pkg/errors"
	"github.com/tilegarden/spritepack/pkg/storage"
)

// sourceExt is the raster extension source icons must carry.
const sourceExt = ".png"

// downloadConcurrency bounds parallel source downloads.
const downloadConcurrency = 8

// Source is one raw icon as authored: its logical name (storage key minus
// extension) and its encoded bytes. Sources are tier-independent.
type Source struct {
	Name string
	Data []byte
}

// Load enumerates the bucket, filters to source icons, and downloads them.
//
// Keys are kept when they carry the source extension and do not start with
// baseName: the atlas's own output lives in the same bucket and must never
// be fed back into itself. An empty filtered set is a hard failure
// (EMPTY_SOURCE_SET): packing zero icons is meaningless and publishing an
// empty atlas would break clients. Any individual download failure aborts
// the load (SOURCE_FETCH); a partial atlas is worse than no atlas because
// clients assume completeness.
//
// The returned sources are ordered by name.
func Load(ctx context.Context, store storage.Store, bucket, baseName string) ([]Source, error) {
	objects, err := store.List(ctx, bucket)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceFetch, err, "list bucket %q", bucket)
	}

	var keys []string
	for _, obj := range objects {
		if isSourceKey(obj.Name, baseName) {
			keys = append(keys, obj.Name)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New(errors.ErrCodeEmptySourceSet, "no source icons in bucket %q", bucket)
	}

	sources := make([]Source, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadConcurrency)
	for i, key := range keys {
		g.Go(func() error {
			data, err := store.Download(ctx, bucket, key)
			if err != nil {
				return errors.Wrap(errors.ErrCodeSourceFetch, err, "download %s", key)
			}
			sources[i] = Source{Name: logicalName(key), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// isSourceKey reports whether a bucket key names a source icon: correct
// extension, and not a prior atlas artifact (any key starting with the
// reserved base name, including mis-suffixed leftovers like
// "map-sprite-old.png").
func isSourceKey(key, baseName string) bool {
	if !strings.HasSuffix(key, sourceExt) {
		return false
	}
	return !strings.HasPrefix(path.Base(key), baseName)
}

// logicalName derives a source's identity from its storage key: the base
// name with the extension removed.
func logicalName(key string) string {
	base := path.Base(key)
	return strings.TrimSuffix(base, path.Ext(base))
}
