package ipfabric

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"

	"github.com/ivoronin/ipfq/internal/version"
)

// ErrNoSnapshot is returned when no loaded snapshot exists.
var ErrNoSnapshot = errors.New("no loaded snapshot")

// Snapshot states reported by the API.
const (
	SnapshotLoaded   = "loaded"
	SnapshotUnloaded = "unloaded"
)

// Snapshot is a discovery snapshot.
type Snapshot struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	State   string    `json:"state"`
	Status  string    `json:"status"`
	Locked  bool      `json:"locked"`
	Devices int       `json:"devices"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Loaded reports whether the snapshot can be queried.
func (s Snapshot) Loaded() bool { return s.State == SnapshotLoaded }

// Version returns the server release version from /api/version.
func (c *Client) Version(ctx context.Context) (*semver.Version, error) {
	data, err := c.do(ctx, http.MethodGet, c.base.String()+"/api/version", nil)
	if err != nil {
		return nil, err
	}
	release := gjson.GetBytes(data, "releaseVersion").String()
	if release == "" {
		release = gjson.GetBytes(data, "apiVersion").String()
	}
	if release == "" {
		return nil, fmt.Errorf("version response has no releaseVersion")
	}
	return version.ParseRelease(release)
}

// Snapshots lists snapshots, loaded ones first, newest first.
func (c *Client) Snapshots(ctx context.Context) ([]Snapshot, error) {
	data, err := c.get(ctx, "snapshots", nil)
	if err != nil {
		return nil, err
	}
	return parseSnapshots(data)
}

// LatestSnapshot returns the newest loaded snapshot.
func (c *Client) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	snaps, err := c.Snapshots(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snaps) == 0 || !snaps[0].Loaded() {
		return Snapshot{}, ErrNoSnapshot
	}
	return snaps[0], nil
}

func parseSnapshots(data []byte) ([]Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid snapshots response")
	}
	list := gjson.ParseBytes(data)
	if !list.IsArray() {
		return nil, fmt.Errorf("invalid snapshots response: not an array")
	}

	var snaps []Snapshot
	for _, s := range list.Array() {
		snaps = append(snaps, Snapshot{
			ID:      s.Get("id").String(),
			Name:    s.Get("name").String(),
			State:   s.Get("state").String(),
			Status:  s.Get("status").String(),
			Locked:  s.Get("locked").Bool(),
			Devices: int(s.Get("totalDevCount").Int()),
			Start:   msTime(s.Get("tsStart")),
			End:     msTime(s.Get("tsEnd")),
		})
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		if snaps[i].Loaded() != snaps[j].Loaded() {
			return snaps[i].Loaded()
		}
		return snaps[i].Start.After(snaps[j].Start)
	})
	return snaps, nil
}

// msTime converts an epoch-milliseconds timestamp; zero when absent.
func msTime(r gjson.Result) time.Time {
	if !r.Exists() || r.Int() == 0 {
		return time.Time{}
	}
	return time.UnixMilli(r.Int()).UTC()
}
