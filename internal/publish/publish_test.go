package publish

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	calls  []call
	failOn string // first argument of the step that fails
	output string
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	if len(args) > 0 && args[0] == f.failOn {
		return []byte(f.output), errors.New("exit status 1")
	}
	return nil, nil
}

func TestGit_PublishRunsStepsInOrder(t *testing.T) {
	r := &fakeRunner{}
	g := &Git{Dir: "/site", Remote: "origin", Branch: "main", Runner: r}

	require.NoError(t, g.Publish(context.Background(), "Update site from scan"))
	require.Equal(t, []call{
		{"/site", "git", []string{"add", "-A"}},
		{"/site", "git", []string{"commit", "-m", "Update site from scan"}},
		{"/site", "git", []string{"push", "origin", "main"}},
	}, r.calls)
}

func TestGit_StopsAtFirstFailure(t *testing.T) {
	r := &fakeRunner{failOn: "commit", output: "nothing to commit, working tree clean\n"}
	g := &Git{Remote: "origin", Branch: "main", Runner: r}

	err := g.Publish(context.Background(), "msg")
	require.Error(t, err)
	require.Len(t, r.calls, 2, "push must not run after a failed commit")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, "commit", stepErr.Step)
	require.Equal(t, "nothing to commit, working tree clean", stepErr.Output)
	require.True(t, strings.HasPrefix(err.Error(), "git commit: exit status 1"))
}

func TestGit_CustomBinary(t *testing.T) {
	r := &fakeRunner{}
	g := &Git{Binary: "/usr/local/bin/git", Remote: "upstream", Branch: "gh-pages", Runner: r}
	require.NoError(t, g.Publish(context.Background(), "m"))
	require.Equal(t, "/usr/local/bin/git", r.calls[0].name)
	require.Equal(t, []string{"push", "upstream", "gh-pages"}, r.calls[2].args)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), t.TempDir(), "profilescan-no-such-binary")
	require.Error(t, err)
	require.ErrorIs(t, err, exec.ErrNotFound)
}

func TestNoop(t *testing.T) {
	require.NoError(t, Noop{}.Publish(context.Background(), "anything"))
}

func TestGit_ExcludedPathsAreNotStaged(t *testing.T) {
	r := &fakeRunner{}
	g := &Git{Remote: "origin", Branch: "main", Runner: r, Exclude: []string{"data/history.db*"}}

	require.NoError(t, g.Publish(context.Background(), "m"))
	require.Equal(t, []string{"add", "-A", "--", ".", ":(exclude)data/history.db*"}, r.calls[0].args)
}

func TestExcludeWithin(t *testing.T) {
	site := t.TempDir()
	elsewhere := t.TempDir()

	pattern, ok := ExcludeWithin(site, filepath.Join(site, "data", "history.db"))
	require.True(t, ok)
	require.Equal(t, "data/history.db*", pattern)

	_, ok = ExcludeWithin(site, filepath.Join(elsewhere, "history.db"))
	require.False(t, ok)

	_, ok = ExcludeWithin(site, filepath.Join(site, "..", "history.db"))
	require.False(t, ok)
}
