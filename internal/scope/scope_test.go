package scope

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sydlexius/profilescan/internal/config"
	"github.com/sydlexius/profilescan/internal/term"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"T", Test, false},
		{"a", Actual, false},
		{"  b\n", Both, false},
		{"", "", true},
		{"X", "", true},
		{"TA", "", true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrInvalidScope, "Parse(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestLabel(t *testing.T) {
	require.Equal(t, "Test", Test.Label())
	require.Equal(t, "Actual", Actual.Label())
	require.Equal(t, "Both", Both.Label())
}

func TestPrompt_RepromptsOnInvalidInput(t *testing.T) {
	var out bytes.Buffer
	got, err := Prompt(context.Background(), strings.NewReader("x\n\nq\na\n"), &out, term.Plain)
	require.NoError(t, err)
	require.Equal(t, Actual, got)

	text := out.String()
	require.Equal(t, 3, strings.Count(text, "Invalid choice, please enter T, A, or B."))
	require.Equal(t, 4, strings.Count(text, "Scan Test (T), Actual (A), or Both (B)? "))
}

func TestPrompt_LastLineWithoutNewline(t *testing.T) {
	got, err := Prompt(context.Background(), strings.NewReader("b"), io.Discard, term.Plain)
	require.NoError(t, err)
	require.Equal(t, Both, got)
}

func TestPrompt_EOF(t *testing.T) {
	_, err := Prompt(context.Background(), strings.NewReader("nope\n"), io.Discard, term.Plain)
	require.Error(t, err)
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestPrompt_ColoredLetters(t *testing.T) {
	var out bytes.Buffer
	_, err := Prompt(context.Background(), strings.NewReader("t\n"), &out, term.Colors)
	require.NoError(t, err)
	require.Contains(t, out.String(), term.Colors.Test+"T"+term.Colors.Reset)
}

func TestResolve(t *testing.T) {
	paths := map[string]string{
		config.KeyProfilesTest:   "/p/test",
		config.KeyProfilesActual: "/p/actual",
		config.KeyHighwaysTest:   "/h/test",
	}

	got := Resolve(Test, paths)
	require.Equal(t, []string{"/p/test"}, got.ProfileDirs)
	require.Equal(t, []string{"/h/test"}, got.ImageDirs)

	got = Resolve(Actual, paths)
	require.Equal(t, []string{"/p/actual"}, got.ProfileDirs)
	require.Equal(t, []string{""}, got.ImageDirs, "missing key resolves to an empty entry")

	got = Resolve(Both, paths)
	require.Equal(t, []string{"/p/test", "/p/actual"}, got.ProfileDirs)
	require.Equal(t, []string{"/h/test", ""}, got.ImageDirs)
}
