package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X github.com/bsrvc/bsr/pkg/version.Version=...".
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// Semver parses Version. Development builds have no semantic version and
// return an error.
func Semver() (*semver.Version, error) {
	return semver.NewVersion(strings.TrimSpace(Version))
}

// Summary returns a human-friendly version string for CLI output.
func Summary() string {
	v, err := Semver()
	if err != nil {
		if trimmed := strings.TrimSpace(Version); trimmed != "" {
			return trimmed
		}
		return "dev"
	}
	return "v" + v.String()
}
