// Package version carries build metadata, overridden at link time via
// -ldflags "-X github.com/nlshell/nlsh/internal/pkg/version.Version=...".
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
