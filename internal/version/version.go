// Package version holds build metadata injected with -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/sydlexius/profilescan/internal/version.Version=v1.2.0 -X github.com/sydlexius/profilescan/internal/version.Commit=abc123"
var (
	Version = "dev"
	Commit  = "unknown"
)

// String returns the version and commit in a single line.
func String() string {
	return Version + " (" + Commit + ")"
}
