// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Full returns a single human-readable version string for startup logs.
func Full() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
