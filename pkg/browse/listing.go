// Package browse provides directory navigation between viewable images:
// sibling listings, prev/next stepping with wraparound, deletion and a
// change watcher for the current directory.
package browse

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/karrick/godirwalk"

	"github.com/digitalvision/viewfinder/pkg/viewer"
)

// ListSiblingImages returns the supported image files in path's directory,
// sorted case-insensitively by filename. The returned paths include the
// directory prefix. path itself does not need to exist or be an image;
// only its directory matters.
func ListSiblingImages(path string) ([]string, error) {
	dir := filepath.Dir(path)
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(names))
	for _, name := range names {
		if viewer.IsSupportedPath(name) {
			files = append(files, name)
		}
	}
	sort.Slice(files, func(i, j int) bool {
		li, lj := strings.ToLower(files[i]), strings.ToLower(files[j])
		if li != lj {
			return li < lj
		}
		return files[i] < files[j]
	})

	for i, name := range files {
		files[i] = filepath.Join(dir, name)
	}
	return files, nil
}

// IndexOf returns the position of path in list, or -1 when absent. Paths
// are compared after lexical cleaning so trailing slashes and "." segments
// do not cause misses.
func IndexOf(path string, list []string) int {
	want := filepath.Clean(path)
	for i, p := range list {
		if filepath.Clean(p) == want {
			return i
		}
	}
	return -1
}
