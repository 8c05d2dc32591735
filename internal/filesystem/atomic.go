package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteFileAtomic writes data next to target and renames it into place, so
// readers of target see either the old content or the new content.
// Parent directories are created as needed.
func WriteFileAtomic(target string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: output dirs are published content
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp to target: %w", err)
	}
	return nil
}

// StagingDir creates an empty sibling directory of target that can later be
// swapped into place with SwapDir. Staging directories left behind by an
// interrupted run are removed first.
func StagingDir(target string) (string, error) {
	parent := filepath.Dir(target)
	if err := os.MkdirAll(parent, 0o755); err != nil { //nolint:gosec // G301: output dirs are published content
		return "", fmt.Errorf("creating parent directory: %w", err)
	}

	prefix := stagingPrefix(target)
	entries, err := os.ReadDir(parent)
	if err != nil {
		return "", fmt.Errorf("reading parent directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			if err := os.RemoveAll(filepath.Join(parent, e.Name())); err != nil {
				return "", fmt.Errorf("removing stale staging directory: %w", err)
			}
		}
	}

	dir, err := os.MkdirTemp(parent, prefix+"*")
	if err != nil {
		return "", fmt.Errorf("creating staging directory: %w", err)
	}
	if err := os.Chmod(dir, 0o755); err != nil { //nolint:gosec // G302: published content
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("setting staging permissions: %w", err)
	}
	return dir, nil
}

func stagingPrefix(target string) string {
	return "." + filepath.Base(target) + ".staging-"
}

// SwapDir replaces target with staging using the rename/bak pattern:
//  1. If target exists, rename it to <target>.bak
//  2. Rename staging to target
//  3. Remove <target>.bak
//
// If step 2 fails the backup is restored. staging must be on the same
// filesystem as target (StagingDir guarantees this).
func SwapDir(staging, target string) error {
	bakPath := target + ".bak"

	// A leftover backup means an earlier swap was interrupted after step 1.
	if err := os.RemoveAll(bakPath); err != nil {
		return fmt.Errorf("removing stale backup: %w", err)
	}

	hadTarget := false
	if _, err := os.Stat(target); err == nil {
		if err := os.Rename(target, bakPath); err != nil {
			return fmt.Errorf("backing up existing directory: %w", err)
		}
		hadTarget = true
	}

	if err := os.Rename(staging, target); err != nil {
		if hadTarget {
			_ = os.Rename(bakPath, target)
		}
		return fmt.Errorf("renaming staging to target: %w", err)
	}

	if hadTarget {
		if err := os.RemoveAll(bakPath); err != nil {
			return fmt.Errorf("removing backup: %w", err)
		}
	}
	return nil
}
