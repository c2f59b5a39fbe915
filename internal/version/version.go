// Package version reports the build kasalog was made from.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String is "<version> (<commit>) <date>", filling the commit from the
// embedded build info when ldflags did not set it.
func String() string {
	base := Version
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit != "" {
		base += fmt.Sprintf(" (%s)", commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" %s", Date)
	}
	return base
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
