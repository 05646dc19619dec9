package util

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ImageFile represents an image file on disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Name is the slash-separated path relative to the listed directory, as
	// referenced by COCO file_name.
	Name string
	// Size is the file size in bytes.
	Size int64
}

// ListImageFiles lists the image files under dir, descending into
// sub-directories.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Image files sorted by name.
// - error: Error if the directory cannot be walked.
func ListImageFiles(dir string) ([]ImageFile, error) {
	var images []ImageFile
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png", ".bmp":
			info, err := entry.Info()
			if err != nil {
				return errors.Wrapf(err, "stat %s", path)
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			images = append(images, ImageFile{
				Path: path,
				Name: filepath.ToSlash(rel),
				Size: info.Size(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "read image directory")
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Name < images[j].Name
	})

	return images, nil
}

// IndexByName maps file names to their ImageFile.
func IndexByName(files []ImageFile) map[string]ImageFile {
	index := make(map[string]ImageFile, len(files))
	for _, f := range files {
		index[f.Name] = f
	}
	return index
}

// CleanName normalises a COCO file_name for lookups in an IndexByName map.
func CleanName(name string) string {
	return filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
}
