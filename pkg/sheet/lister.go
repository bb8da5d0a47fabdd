package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Lister enumerates the card images for a run. The returned order decides
// which grid cell each card lands in, so it must be deterministic.
type Lister interface {
	ListImages(dir string) ([]string, error)
}

// DirLister scans a folder for card images, sorted lexicographically by
// file name.
type DirLister struct{}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
}

func (DirLister) ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading card images folder: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
