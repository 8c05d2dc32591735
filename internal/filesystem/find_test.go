package filesystem

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindFiles_RecursiveSortedByBasename(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "zeta.ini"))
	touch(t, filepath.Join(root, "a", "Beta.INI"))
	touch(t, filepath.Join(root, "a", "b", "alpha.ini"))
	touch(t, filepath.Join(root, "a", "notes.txt"))
	touch(t, filepath.Join(root, "gamma.ini.bak"))

	got, err := FindFiles(root, []string{".ini"}, discardLogger())
	if err != nil {
		t.Fatalf("FindFiles: %v", err)
	}

	want := []string{
		filepath.Join(root, "a", "b", "alpha.ini"),
		filepath.Join(root, "a", "Beta.INI"),
		filepath.Join(root, "zeta.ini"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindFiles_MultipleExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "one.PNG"))
	touch(t, filepath.Join(root, "two.jpeg"))
	touch(t, filepath.Join(root, "three.Jpg"))
	touch(t, filepath.Join(root, "four.gif"))

	got, err := FindFiles(root, []string{".png", ".jpg", ".jpeg"}, discardLogger())
	if err != nil {
		t.Fatalf("FindFiles: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d files, want 3: %v", len(got), got)
	}
	if filepath.Base(got[0]) != "one.PNG" || filepath.Base(got[2]) != "two.jpeg" {
		t.Errorf("unexpected order: %v", got)
	}
}

func TestFindFiles_DuplicateBasenamesAdjacent(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "x", "same.ini"))
	touch(t, filepath.Join(root, "m.ini"))
	touch(t, filepath.Join(root, "y", "SAME.ini"))

	got, err := FindFiles(root, []string{".ini"}, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	if filepath.Base(got[0]) != "m.ini" {
		t.Errorf("first = %q, want m.ini", got[0])
	}
}

func TestFindFiles_EmptyAndMissingRoot(t *testing.T) {
	got, err := FindFiles("", []string{".ini"}, discardLogger())
	if err != nil || got != nil {
		t.Errorf("empty dir: got %v, %v", got, err)
	}

	got, err = FindFiles(filepath.Join(t.TempDir(), "missing"), []string{".ini"}, discardLogger())
	if err != nil || got != nil {
		t.Errorf("missing dir: got %v, %v", got, err)
	}
}

func TestFindAll_ConcatenatesInFolderOrder(t *testing.T) {
	test := t.TempDir()
	actual := t.TempDir()
	touch(t, filepath.Join(test, "z.ini"))
	touch(t, filepath.Join(actual, "a.ini"))

	got := FindAll([]string{test, "", actual}, []string{".ini"}, discardLogger())
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if filepath.Base(got[0]) != "z.ini" || filepath.Base(got[1]) != "a.ini" {
		t.Errorf("expected per-folder order, got %v", got)
	}
}
