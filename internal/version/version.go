// Package version holds build-time metadata injected via -ldflags.
// When nothing is injected, helpers fall back to development defaults.
package version

var (
	// Version is a SemVer tag like v1.2.3 for releases. Empty for dev builds.
	Version = ""
	// Commit is the short git SHA for the build.
	Commit = ""
	// Dirty is "dirty" when the working tree had uncommitted changes.
	Dirty = ""
)

// String returns a compact human-readable version for logs and the health
// endpoint: the release tag when present, otherwise "dev-<sha>" with a "*"
// suffix for dirty trees, or plain "dev".
func String() string {
	if Version != "" {
		return Version
	}
	if Commit != "" {
		suffix := Commit
		if Dirty == "dirty" {
			suffix += "*"
		}
		return "dev-" + suffix
	}
	return "dev"
}
