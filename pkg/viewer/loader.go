package viewer

import (
	"context"
	"fmt"
	"image"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/digitalvision/viewfinder/util"
	"github.com/digitalvision/viewfinder/util/log"
)

// prefetchWorkers bounds concurrent decodes during neighbour prefetch.
const prefetchWorkers = 2

// Cache keeps recently decoded images so directory navigation does not
// re-decode on every prev/next step.
type Cache struct {
	lru    *lru.Cache[string, image.Image]
	hits   *util.SafeCounter
	misses *util.SafeCounter
}

// NewCache creates a decoded-image cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, image.Image](size)
	if err != nil {
		return nil, fmt.Errorf("creating image cache: %w", err)
	}
	return &Cache{lru: c, hits: util.NewSafeInt(), misses: util.NewSafeInt()}, nil
}

// Get returns the cached decode for path, if present.
func (c *Cache) Get(path string) (image.Image, bool) {
	img, ok := c.lru.Get(path)
	if ok {
		c.hits.Increment()
	} else {
		c.misses.Increment()
	}
	return img, ok
}

// Add stores a decoded image under its path.
func (c *Cache) Add(path string, img image.Image) {
	c.lru.Add(path, img)
}

// Remove evicts path, e.g. after the file was deleted or overwritten.
func (c *Cache) Remove(path string) {
	c.lru.Remove(path)
}

// Stats returns the hit and miss counts since creation.
func (c *Cache) Stats() (hits, misses int) {
	return c.hits.Value(), c.misses.Value()
}

// Loader decodes images from disk, applies EXIF orientation when a
// metadata reader is available, and memoizes results in an optional cache.
type Loader struct {
	meta  *MetadataReader
	cache *Cache
}

// NewLoader creates a Loader; meta and cache may each be nil.
func NewLoader(meta *MetadataReader, cache *Cache) *Loader {
	return &Loader{meta: meta, cache: cache}
}

// Load returns the upright decoded image for path.
func (l *Loader) Load(path string) (image.Image, error) {
	if !IsSupportedPath(path) {
		return nil, fmt.Errorf("unsupported file format: %s", path)
	}

	if l.cache != nil {
		if img, ok := l.cache.Get(path); ok {
			return img, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if o := l.meta.Orientation(path); o != 1 {
		img = ApplyOrientation(img, o)
	}

	if l.cache != nil {
		l.cache.Add(path, img)
	}
	return img, nil
}

// Evict drops any cached decode for path, e.g. after the file was deleted
// or overwritten on disk.
func (l *Loader) Evict(path string) {
	if l.cache != nil {
		l.cache.Remove(path)
	}
}

// Prefetch decodes paths into the cache in the background so an upcoming
// navigation step is instant. Individual failures are logged and skipped;
// the unreadable file will surface its error when actually navigated to.
func (l *Loader) Prefetch(ctx context.Context, paths []string) {
	if l.cache == nil || len(paths) == 0 {
		return
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(prefetchWorkers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			if _, err := l.Load(path); err != nil {
				log.Debugf("prefetch skipped %s: %v", path, err)
			}
			return nil
		})
	}
	g.Wait()
}
