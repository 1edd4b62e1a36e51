package output

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VersionInfo implements Formatter for the version command.
// Server fields are empty when no server was queried.
type VersionInfo struct {
	Version       string `json:"version"`
	ServerRelease string `json:"server_release,omitempty"`
	APIVersion    string `json:"api_version,omitempty"`
}

// FormatText returns "ipfq <version>" and, when known, the server line.
func (v *VersionInfo) FormatText() string {
	lines := []string{"ipfq " + v.Version}
	if v.ServerRelease != "" {
		lines = append(lines, fmt.Sprintf("server %s (api %s)", v.ServerRelease, v.APIVersion))
	}
	return strings.Join(lines, "\n")
}

// FormatJSON returns a single JSON object.
func (v *VersionInfo) FormatJSON() ([]byte, error) {
	return json.Marshal(v)
}
