package filesystem

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindFiles walks dir recursively and returns files whose extension matches
// one of exts (compared case-insensitively, with the leading dot). The
// result is sorted by lowercase basename only; files sharing a basename keep
// their walk order. An empty dir yields nil, as does a missing root.
// Unreadable subdirectories are logged and skipped.
func FindFiles(dir string, exts []string, logger *slog.Logger) ([]string, error) {
	if dir == "" {
		return nil, nil
	}

	want := make(map[string]bool, len(exts))
	for _, e := range exts {
		want[strings.ToLower(e)] = true
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn("skipping unreadable path",
				slog.String("path", path),
				slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if want[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("scan folder does not exist", slog.String("path", dir))
			return nil, nil
		}
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(files[i])) < strings.ToLower(filepath.Base(files[j]))
	})
	return files, nil
}

// FindAll runs FindFiles over each dir and concatenates the results in dir
// order. A failing dir is logged and contributes nothing.
func FindAll(dirs []string, exts []string, logger *slog.Logger) []string {
	var all []string
	for _, dir := range dirs {
		files, err := FindFiles(dir, exts, logger)
		if err != nil {
			logger.Error("listing folder", slog.String("path", dir), slog.String("error", err.Error()))
			continue
		}
		all = append(all, files...)
	}
	return all
}
