// Package buildinfo carries version metadata stamped in at build time.
package buildinfo

// Set via -ldflags at release build time; the zero values identify a
// local development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
