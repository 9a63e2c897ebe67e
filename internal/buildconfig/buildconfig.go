package buildconfig

import "runtime/debug"

// Injected at build time with
// -ldflags "-X github.com/Harshitk-cp/peckorder/internal/buildconfig.version=..."
var (
	version = "dev"
	commit  = ""
)

// Version returns the release version, or "dev" for local builds.
func Version() string {
	return version
}

// Commit returns the git revision. Without an ldflags override it falls back
// to the VCS stamp the Go toolchain embeds, then to "unknown".
func Commit() string {
	if commit != "" {
		return commit
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

// VersionInfo is the /version payload.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": Version(),
		"commit":  Commit(),
	}
}
