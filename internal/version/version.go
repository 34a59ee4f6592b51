// Package version reports build metadata for the version command.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a human-friendly version string that surfaces build metadata.
// Binaries installed with go install carry no ldflags, so the module version
// from the embedded build info is used instead.
func Info() string {
	return format(Version, Commit, Date, readBuildInfo)
}

func format(version, commit, date string, read func() (*debug.BuildInfo, bool)) string {
	if version == "dev" {
		if info, ok := read(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	return fmt.Sprintf("belajar %s (commit %s, built %s)", version, commit, date)
}

func readBuildInfo() (*debug.BuildInfo, bool) {
	return debug.ReadBuildInfo()
}
