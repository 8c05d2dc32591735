// Package publish pushes the generated site artifacts to a git remote.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Publisher commits and pushes the working tree.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}

// Runner executes an external command in dir and returns its combined
// output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Git stages everything, commits and pushes to Remote/Branch.
type Git struct {
	Dir     string // working tree; empty means the current directory
	Remote  string
	Branch  string
	Binary  string   // defaults to "git"
	Runner  Runner   // defaults to ExecRunner
	Exclude []string // pathspec patterns, relative to Dir, never staged
}

// ExcludeWithin returns a pathspec pattern matching path and any sibling
// that extends its name (SQLite's -wal and -shm files), relative to the
// working tree dir. ok is false when path lies outside dir.
func ExcludeWithin(dir, path string) (pattern string, ok bool) {
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel) + "*", true
}

func (g *Git) addArgs() []string {
	if len(g.Exclude) == 0 {
		return []string{"add", "-A"}
	}
	args := []string{"add", "-A", "--", "."}
	for _, p := range g.Exclude {
		args = append(args, ":(exclude)"+p)
	}
	return args
}

// StepError reports which git step failed.
type StepError struct {
	Step   string
	Output string
	Err    error
}

func (e *StepError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("git %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", e.Step, e.Err, e.Output)
}

func (e *StepError) Unwrap() error { return e.Err }

// Publish runs add, commit and push in order and stops at the first
// failure. Files already written locally are left as they are.
func (g *Git) Publish(ctx context.Context, message string) error {
	runner := g.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}

	steps := []struct {
		name string
		args []string
	}{
		{"add", g.addArgs()},
		{"commit", []string{"commit", "-m", message}},
		{"push", []string{"push", g.Remote, g.Branch}},
	}
	for _, st := range steps {
		out, err := runner.Run(ctx, g.Dir, bin, st.args...)
		if err != nil {
			return &StepError{Step: st.name, Output: strings.TrimSpace(string(out)), Err: err}
		}
	}
	return nil
}

// Noop is used when publishing is disabled.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string) error { return nil }
