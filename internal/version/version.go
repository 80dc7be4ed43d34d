// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns "version (commit, built date)" for logs and health reports.
func String() string {
	return Version + " (" + Commit + ", built " + Date + ")"
}
