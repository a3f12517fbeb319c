package browse

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/digitalvision/viewfinder/pkg/viewer"
	"github.com/digitalvision/viewfinder/util/log"
)

// ErrNoImages is returned when the current directory holds no viewable
// images, e.g. after the last one was deleted.
var ErrNoImages = errors.New("no images in directory")

// Navigator steps through the images of one directory. It is owned by a
// single goroutine; only the neighbour prefetch it kicks off runs
// concurrently, and that touches nothing but the loader's cache.
type Navigator struct {
	loader *viewer.Loader
	files  []string
	index  int
}

// NewNavigator creates a Navigator stepping with the given loader.
func NewNavigator(loader *viewer.Loader) *Navigator {
	return &Navigator{loader: loader, index: -1}
}

// Open loads path and builds the sibling listing its prev/next steps will
// walk. A load failure leaves the previous listing in place.
func (n *Navigator) Open(ctx context.Context, path string) (image.Image, error) {
	img, err := n.loader.Load(path)
	if err != nil {
		return nil, err
	}

	files, err := ListSiblingImages(path)
	if err != nil {
		return nil, err
	}
	n.files = files
	n.index = IndexOf(path, files)
	n.prefetchNeighbours(ctx)
	return img, nil
}

// Next advances to the next image, wrapping at the end of the directory.
// Unreadable files are skipped; after a full unreadable lap it fails.
func (n *Navigator) Next(ctx context.Context) (string, image.Image, error) {
	return n.step(ctx, 1)
}

// Prev steps back to the previous image, wrapping at the start.
func (n *Navigator) Prev(ctx context.Context) (string, image.Image, error) {
	return n.step(ctx, -1)
}

func (n *Navigator) step(ctx context.Context, delta int) (string, image.Image, error) {
	if len(n.files) == 0 {
		return "", nil, ErrNoImages
	}
	for tries := 0; tries < len(n.files); tries++ {
		n.index = (n.index + delta + len(n.files)) % len(n.files)
		path := n.files[n.index]
		img, err := n.loader.Load(path)
		if err != nil {
			log.Debugf("skipping unreadable %s: %v", path, err)
			if delta == 0 {
				delta = 1
			}
			continue
		}
		n.prefetchNeighbours(ctx)
		return path, img, nil
	}
	return "", nil, fmt.Errorf("no readable images among %d files", len(n.files))
}

// Current returns the path the navigator is positioned on, or "" when the
// listing is empty.
func (n *Navigator) Current() string {
	if n.index < 0 || n.index >= len(n.files) {
		return ""
	}
	return n.files[n.index]
}

// Position reports the 1-based position and total count for status display.
func (n *Navigator) Position() (pos, total int) {
	if n.index < 0 || n.index >= len(n.files) {
		return 0, len(n.files)
	}
	return n.index + 1, len(n.files)
}

// Refresh rebuilds the listing from disk, keeping the position on the
// current file when it still exists.
func (n *Navigator) Refresh() error {
	current := n.Current()
	if current == "" {
		return nil
	}
	files, err := ListSiblingImages(current)
	if err != nil {
		return err
	}
	n.files = files
	n.index = IndexOf(current, files)
	if n.index < 0 && len(files) > 0 {
		n.index = 0
	}
	return nil
}

// DeleteCurrent removes the current file from disk and steps to the next
// image. A removal failure leaves the listing and position untouched so the
// still-present file stays current. When the deleted file was the last one,
// ErrNoImages is returned.
func (n *Navigator) DeleteCurrent(ctx context.Context) (string, image.Image, error) {
	path := n.Current()
	if path == "" {
		return "", nil, ErrNoImages
	}
	if err := os.Remove(path); err != nil {
		return "", nil, fmt.Errorf("deleting %s: %w", path, err)
	}
	n.loader.Evict(path)

	n.files = append(n.files[:n.index], n.files[n.index+1:]...)
	if len(n.files) == 0 {
		n.index = -1
		return "", nil, ErrNoImages
	}
	if n.index >= len(n.files) {
		n.index = 0
	}
	return n.step(ctx, 0)
}

// prefetchNeighbours warms the cache with the images a prev/next step
// would land on.
func (n *Navigator) prefetchNeighbours(ctx context.Context) {
	if len(n.files) < 2 || n.index < 0 {
		return
	}
	next := n.files[(n.index+1)%len(n.files)]
	prev := n.files[(n.index-1+len(n.files))%len(n.files)]
	go n.loader.Prefetch(ctx, []string{next, prev})
}
