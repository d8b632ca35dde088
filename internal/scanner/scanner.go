package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrSourceUnavailable means the source directory cannot be read. This
// is the one scan failure that aborts the whole run.
var ErrSourceUnavailable = errors.New("source directory unavailable")

var rasterExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Scan lists the image files directly inside dir, filtered by the
// raster extension allow-list, in lexicographic order. Subdirectories
// are not descended into.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if _, ok := rasterExtensions[ext]; !ok {
			continue
		}
		files = append(files, e.Name())
	}

	sort.Strings(files)
	return files, nil
}
