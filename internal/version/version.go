// Package version provides build-time version information.
//
// Variables are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/rickgao/treasury-data/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/treasury-data/internal/version.Commit=$(git rev-parse --short HEAD)" ./cmd/ust
package version

// Build-time variables (set via ldflags)
var (
	// Version is the semantic version (e.g., "1.0.0")
	Version = "dev"

	// Commit is the git commit hash (short form)
	Commit = "unknown"
)

// String returns a formatted version string.
func String() string {
	return Version + " (" + Commit + ")"
}

// Info is the version reported by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// Current returns the running build.
func Current() Info {
	return Info{Version: Version, Commit: Commit}
}
