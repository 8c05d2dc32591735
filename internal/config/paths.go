package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Keys recognized in the paths file.
const (
	KeyProfilesTest   = "color_profiles_test"
	KeyProfilesActual = "color_profiles_actual"
	KeyHighwaysTest   = "highways_test"
	KeyHighwaysActual = "highways_actual"
)

// LoadPaths reads a key=value paths file. Lines without "=" are ignored and
// only the first "=" separates key from value. Later duplicates win.
func LoadPaths(path string) (map[string]string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("opening paths file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	paths := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		paths[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading paths file: %w", err)
	}
	return paths, nil
}
