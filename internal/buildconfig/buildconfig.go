// Package buildconfig exposes build metadata stamped at link time via
// -ldflags "-X .../buildconfig.version=v1.2.3 -X .../buildconfig.commit=abc123".
package buildconfig

var (
	version = "dev"
	commit  = "unknown"
)

// Version returns the release version of this binary.
func Version() string {
	return version
}

// Commit returns the VCS revision the binary was built from.
func Commit() string {
	return commit
}

// VersionInfo returns the build metadata reported by health endpoints.
func VersionInfo() map[string]string {
	return map[string]string{
		"engine":  "nalanda",
		"version": version,
		"commit":  commit,
	}
}
