// Package version provides IP Fabric release and API version utilities.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Auto is the special API version asking the client to detect the API
// version from the server release.
const Auto = "auto"

// ParseRelease parses an IP Fabric release string such as "6.3.1+3" or "v7.0".
func ParseRelease(s string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid release version %q: %w", s, err)
	}
	return v, nil
}

// APIPrefix returns the API path segment for a release: "v<major>.<minor>".
func APIPrefix(v *semver.Version) string {
	return fmt.Sprintf("v%d.%d", v.Major(), v.Minor())
}

// NormalizeAPIVersion turns "6.3", "v6.3" or "v1" into the path segment form.
// Auto is returned unchanged.
func NormalizeAPIVersion(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == Auto {
		return s, nil
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return "", fmt.Errorf("invalid API version %q: %w", s, err)
	}
	if v.Minor() == 0 && !strings.Contains(strings.TrimPrefix(s, "v"), ".") {
		return fmt.Sprintf("v%d", v.Major()), nil
	}
	return APIPrefix(v), nil
}

// Compare orders two API versions such as "v6.3" or "6.3.1", returning
// -1, 0 or 1. Auto is newer than any release. Strings that are not
// versions sort after versions, lexically.
func Compare(a, b string) int {
	if a == Auto && b == Auto {
		return 0
	}
	if a == Auto {
		return 1
	}
	if b == Auto {
		return -1
	}

	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}

	// Semver wins over non-semver in sorting
	if errA == nil {
		return -1
	}
	if errB == nil {
		return 1
	}

	return strings.Compare(a, b)
}
