package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sydlexius/profilescan/internal/config"
	"github.com/sydlexius/profilescan/internal/publish"
)

// workspace lays out a paths file, one valid profile and a config file
// that keeps every output inside a temp dir.
func workspace(t *testing.T) (configPath, root string) {
	t.Helper()
	for _, k := range []string{"PS_PATHS_FILE", "PS_THUMBNAIL_DIR", "PS_PUBLISH", "PS_HISTORY_PATH", "PS_LOG_LEVEL", "PS_COLOR", "NO_COLOR"} {
		t.Setenv(k, "")
	}
	root = t.TempDir()

	profiles := filepath.Join(root, "profiles")
	require.NoError(t, os.MkdirAll(profiles, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(profiles, "ok.ini"), []byte(
		"[c]\nnote_green=#00FF00\nnote_red=#FF0000\nnote_yellow=#FFFF00\nnote_blue=#0000FF\n"+
			"note_orange=#FFA500\nnote_sp_active=#ABCDEF\nnote_open=#123456\n"), 0o644))

	pathsFile := filepath.Join(root, "config.txt")
	require.NoError(t, os.WriteFile(pathsFile, []byte(
		"color_profiles_test = "+profiles+"\nhighways_test = "+filepath.Join(root, "highways")+"\n"), 0o644))

	configPath = filepath.Join(root, "profilescan.yaml")
	yaml := strings.Join([]string{
		"paths_file: " + pathsFile,
		"output:",
		"  thumbnail_dir: " + filepath.Join(root, "docs", "thumbnails"),
		"  text_summary: " + filepath.Join(root, "output", "scan_summary.txt"),
		"  json_summary: " + filepath.Join(root, "docs", "scan_summary.json"),
		"publish:",
		"  enabled: true",
		"history:",
		"  enabled: true",
		"  path: " + filepath.Join(root, "data", "history.db"),
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	return configPath, root
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "profilescan dev"))
}

func TestScanThenHistory(t *testing.T) {
	configPath, root := workspace(t)

	out, _, err := execute(t, "", "--config", configPath, "--scope", "t", "--no-push", "--color", "never")
	require.NoError(t, err)
	require.Contains(t, out, "Scanning Test folder(s)...")
	require.Contains(t, out, "Scanned 1 color profiles and 0 highway images.")
	require.Contains(t, out, "Found 0 errors and 0 warnings:")
	require.NotContains(t, out, "Git error")

	_, err = os.Stat(filepath.Join(root, "docs", "scan_summary.json"))
	require.NoError(t, err)

	out, _, err = execute(t, "", "history", "--config", configPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "ID"))
	require.Contains(t, lines[1], " T ")
	require.True(t, strings.HasSuffix(lines[1], "no"))
}

func TestScanPromptsForScope(t *testing.T) {
	configPath, _ := workspace(t)

	out, _, err := execute(t, "x\nb\n", "--config", configPath, "--no-push", "--color", "never")
	require.NoError(t, err)
	require.Contains(t, out, "Invalid choice, please enter T, A, or B.")
	require.Contains(t, out, "Scanning Both folder(s)...")
}

func TestScanPromptEOF(t *testing.T) {
	configPath, _ := workspace(t)

	_, _, err := execute(t, "", "--config", configPath, "--no-push")
	require.Error(t, err)
}

func TestInvalidFlags(t *testing.T) {
	configPath, _ := workspace(t)

	_, _, err := execute(t, "", "--config", configPath, "--scope", "Z", "--no-push")
	require.Error(t, err)

	_, _, err = execute(t, "", "--config", configPath, "--log-level", "loud")
	require.ErrorContains(t, err, "invalid log level")

	_, _, err = execute(t, "", "--config", configPath, "--color", "sometimes", "--scope", "T")
	require.ErrorContains(t, err, "invalid color mode")
}

func TestMissingPathsFile(t *testing.T) {
	configPath, _ := workspace(t)

	_, _, err := execute(t, "", "--config", configPath, "--paths", filepath.Join(t.TempDir(), "nope.txt"), "--scope", "T")
	require.ErrorContains(t, err, "loading paths")
}

func TestPublisherNeverStagesHistory(t *testing.T) {
	site := t.TempDir()
	t.Chdir(site)

	cfg := config.Default()
	cfg.History.Path = filepath.Join("data", "history.db")
	a := &app{cfg: cfg}

	g, ok := a.publisher().(*publish.Git)
	require.True(t, ok)
	require.Equal(t, []string{"data/history.db*"}, g.Exclude)

	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	g = a.publisher().(*publish.Git)
	require.Empty(t, g.Exclude, "a database outside the working tree needs no exclusion")

	cfg.Publish.Enabled = false
	require.IsType(t, publish.Noop{}, a.publisher())
}

func TestDefaultHistoryOutsideWorkingTree(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)

	_, inside := publish.ExcludeWithin(wd, config.Default().History.Path)
	require.False(t, inside)
}
