// Package misc keeps application identity, values are set at build time
// with -ldflags "-X geocss/misc.version=... -X geocss/misc.gitHash=...".
package misc

import (
	"runtime/debug"
)

var (
	appName = "geocss"
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name used for logger, report and temporary
// file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

// GetGitHash returns revision program was built from, "unknown" when not
// available.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
