// Package version holds the build version stamped in at link time.
package version

// Version is overridden via -ldflags "-X marquee/internal/version.Version=...".
var Version = "dev"
