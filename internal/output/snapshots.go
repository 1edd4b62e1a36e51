package output

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ivoronin/ipfq/internal/ipfabric"
)

// jsonTimeFormat is the ISO 8601 UTC timestamp format for JSON output.
// Uses literal 'Z' suffix since all times are UTC (via .UTC() call).
const jsonTimeFormat = "2006-01-02T15:04:05Z"

// textTimeFormat is used in tables.
const textTimeFormat = "2006-01-02 15:04"

// SnapshotList implements Formatter for snapshot listings.
// Snapshots are printed in the order given.
type SnapshotList struct {
	Snapshots []ipfabric.Snapshot
}

// FormatText returns kubectl-style table output with aligned columns.
// Header: ID, NAME, STATE, STATUS, DEVICES, START, LOCKED
func (l *SnapshotList) FormatText() string {
	if len(l.Snapshots) == 0 {
		return ""
	}

	tw := NewTableWriter()
	tw.Header("ID", "NAME", "STATE", "STATUS", "DEVICES", "START", "LOCKED")

	for _, s := range l.Snapshots {
		tw.Row(s.ID, dash(s.Name), dash(s.State), dash(s.Status),
			strconv.Itoa(s.Devices), formatTime(s.Start, textTimeFormat), strconv.FormatBool(s.Locked))
	}

	return tw.String()
}

// FormatJSON returns JSON array output.
func (l *SnapshotList) FormatJSON() ([]byte, error) {
	if len(l.Snapshots) == 0 {
		return []byte("[]"), nil
	}

	out := make([]jsonSnapshot, len(l.Snapshots))
	for i, s := range l.Snapshots {
		out[i] = jsonSnapshot{
			ID:      s.ID,
			Name:    s.Name,
			State:   s.State,
			Status:  s.Status,
			Locked:  s.Locked,
			Devices: s.Devices,
			Start:   formatTime(s.Start, jsonTimeFormat),
			End:     formatTime(s.End, jsonTimeFormat),
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

type jsonSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	State   string `json:"state"`
	Status  string `json:"status,omitempty"`
	Locked  bool   `json:"locked"`
	Devices int    `json:"devices"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
}

// formatTime returns "" for the zero time in JSON and "-" in text.
func formatTime(t time.Time, layout string) string {
	if t.IsZero() {
		if layout == jsonTimeFormat {
			return ""
		}
		return "-"
	}
	return t.UTC().Format(layout)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
