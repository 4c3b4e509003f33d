// Package version exposes build metadata for the rosterx CLI.
//
// Values are injected with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/rosterx/internal/version.Version=1.0.0 ..."
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	Dirty     = "false"
	BuildDate = "unknown"
)

// String returns a single-line version string.
func String() string {
	if Dirty == "true" {
		return Version + "-dirty"
	}
	return Version
}

// Full returns a multi-line description of the build.
func Full() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rosterx %s\n", String())
	fmt.Fprintf(&sb, "  Commit:     %s\n", Commit)
	fmt.Fprintf(&sb, "  Built:      %s\n", BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(&sb, "  OS/Arch:    %s/%s", runtime.GOOS, runtime.GOARCH)
	return sb.String()
}
