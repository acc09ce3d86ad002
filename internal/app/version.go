package app

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/sequenz/fibdev/internal/app.Version=...".
var Version = "dev"

// HasVersionFlag reports whether the argument list requests the version.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--version" || arg == "-version" {
			return true
		}
	}
	return false
}

// PrintVersion writes the version line, preferring VCS build info when the
// version was not stamped at build time.
func PrintVersion(out io.Writer) {
	version := Version
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	fmt.Fprintf(out, "fibdev %s\n", version)
}
