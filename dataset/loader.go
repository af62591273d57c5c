// Package dataset - Conversion of YOLO-format detection datasets between class taxonomies.
package dataset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ImageExtensions are the image file suffixes picked up from a split, compared case-insensitively.
var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

// IsImageFile reports whether name carries one of ImageExtensions.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListImages returns the names of the image files directly inside dir, sorted by name.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []string: File names (not paths) of the images.
// - error: Error if the directory cannot be read. A missing directory keeps os.ErrNotExist in the chain.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing images in %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsImageFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}

// LabelName returns the label file name for an image: the image stem plus ".txt".
func LabelName(imageName string) string {
	return strings.TrimSuffix(imageName, filepath.Ext(imageName)) + ".txt"
}
