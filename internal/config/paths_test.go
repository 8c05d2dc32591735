package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	content := "color_profiles_test = /data/profiles/test\n" +
		"# comment without separator\n" +
		"\n" +
		"highways_actual=C:\\highways=actual\n" +
		"  color_profiles_actual=  /data/profiles/actual  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := LoadPaths(path)
	if err != nil {
		t.Fatalf("LoadPaths: %v", err)
	}

	want := map[string]string{
		KeyProfilesTest:   "/data/profiles/test",
		KeyProfilesActual: "/data/profiles/actual",
		KeyHighwaysActual: `C:\highways=actual`,
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d keys, want %d: %v", len(paths), len(want), paths)
	}
	for k, v := range want {
		if paths[k] != v {
			t.Errorf("paths[%q] = %q, want %q", k, paths[k], v)
		}
	}
	if _, ok := paths[KeyHighwaysTest]; ok {
		t.Error("highways_test should be absent")
	}
}

func TestLoadPaths_Missing(t *testing.T) {
	if _, err := LoadPaths(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing paths file")
	}
}
