package browse

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/digitalvision/viewfinder/pkg/viewer"
	"github.com/digitalvision/viewfinder/util/log"
)

// WatchDirectory invokes onChange whenever a viewable image is created,
// removed or renamed in dir, so the caller can refresh its listing. The
// watch runs until ctx is cancelled. onChange is called from the watch
// goroutine; callers that own single-threaded state must marshal the
// refresh back themselves.
func WatchDirectory(ctx context.Context, dir string, onChange func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating directory watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer fw.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if !listingChanged(ev) {
					continue
				}
				log.Debugf("directory change: %s %s", ev.Op, ev.Name)
				onChange()
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				log.Debugf("directory watcher error: %v", err)
			}
		}
	}()
	return nil
}

// listingChanged reports whether ev affects which images a listing of the
// directory would contain. In-place writes keep the listing intact.
func listingChanged(ev fsnotify.Event) bool {
	if !viewer.IsSupportedPath(ev.Name) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
