package version

import "fmt"

// Build metadata of the pkg-manifest binary, set with
// -ldflags "-X github.com/mtml-lang/pkg-manifest/internal/version.Version=...".
var (
	// Version is the release tag of pkg-manifest.
	Version = "0.1.0"
	// Commit is the git revision the binary was built from.
	Commit = "none"
	// BuildTime is when the binary was built, in UTC.
	BuildTime = "unknown"
)

// Short returns the release tag alone.
func Short() string {
	return Version
}

// Full returns the tool name, release tag, commit and build time on one line.
func Full() string {
	return fmt.Sprintf("pkg-manifest %s (commit %s, built %s)", Short(), Commit, BuildTime)
}
