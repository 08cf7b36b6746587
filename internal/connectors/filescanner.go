package connectors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoFiles is returned when the walk finds nothing that passes the filters
var ErrNoFiles = errors.New("no matching files found")

// FileMeta describes one discovered file
type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

// DiscoveryOptions filters the walk. Zero values disable a filter.
type DiscoveryOptions struct {
	Recursive      bool
	MinSize        int64
	MaxSize        int64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
}

func (o DiscoveryOptions) accept(info fs.FileInfo) bool {
	if o.MinSize > 0 && info.Size() < o.MinSize {
		return false
	}
	if o.MaxSize > 0 && info.Size() > o.MaxSize {
		return false
	}
	if !o.ModifiedAfter.IsZero() && info.ModTime().Before(o.ModifiedAfter) {
		return false
	}
	if !o.ModifiedBefore.IsZero() && info.ModTime().After(o.ModifiedBefore) {
		return false
	}
	return true
}

// DiscoverFiles walks root for regular files with extension ext, in lexical
// order, and returns them together with their total size.
func DiscoverFiles(root string, ext string, options DiscoveryOptions) ([]FileMeta, int64, error) {
	if root == "" {
		return nil, 0, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to access %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, 0, fmt.Errorf("path is not a directory: %s", root)
	}

	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return nil, 0, fmt.Errorf("file extension cannot be empty")
	}

	var files []FileMeta
	var totalSize int64
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), "."+ext) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}
		if !options.accept(info) {
			return nil
		}

		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		totalSize += info.Size()
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, 0, fmt.Errorf("directory walk error: %w", err)
	}

	if len(files) == 0 {
		return nil, 0, fmt.Errorf("%w in %s", ErrNoFiles, root)
	}

	return files, totalSize, nil
}
