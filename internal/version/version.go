// Package version holds the canvasctl release version, overridable at build
// time via -ldflags "-X .../internal/version.Version=...".
package version

// Version is the tool version reported in envelope metadata and by the
// version command.
var Version = "0.1.0"
