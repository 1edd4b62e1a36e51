package ipfabric

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ivoronin/ipfq/internal/filter"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

// TablePortChannels is the port-channel member status table.
const TablePortChannels = "/interfaces/port-channel/member-status"

// PortChannelColumns is the default column set for TablePortChannels.
var PortChannelColumns = []string{"sn", "hostname", "intName", "siteName", "protocol", "members"}

// Member states as reported in the members column.
const (
	MemberUp           = "UP"
	MemberDown         = "DOWN"
	MemberUpBundled    = "P"
	MemberUpNotBundled = "I"
	MemberBundled      = "BNDL"
	MemberInactive     = "D"
	MemberSuspended    = "S"
)

var memberStates = map[string]bool{
	MemberUp:           true,
	MemberDown:         true,
	MemberUpBundled:    true,
	MemberUpNotBundled: true,
	MemberBundled:      true,
	MemberInactive:     true,
	MemberSuspended:    true,
}

// memberPattern matches "Eth1/1(P)".
var memberPattern = regexp.MustCompile(`^([^\s()]+)\((\w+)\)$`)

// PortChannelMember is one interface bundled into a port-channel.
type PortChannelMember struct {
	IntName string `json:"intName"`
	State   string `json:"state"`
}

// ParsePortChannelMembers splits a members cell such as
// "Eth1/1(P), Eth1/2(D)". An empty cell yields no members.
func ParsePortChannelMembers(s string) ([]PortChannelMember, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ", ")
	members := make([]PortChannelMember, 0, len(parts))
	for _, part := range parts {
		m := memberPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			return nil, fmt.Errorf("unable to parse port-channel member %q", part)
		}
		if !memberStates[m[2]] {
			return nil, fmt.Errorf("unknown port-channel member state %q in %q", m[2], part)
		}
		members = append(members, PortChannelMember{IntName: m[1], State: m[2]})
	}
	return members, nil
}

// ExpandPortChannelMembers replaces the members string of each record with
// its parsed []PortChannelMember. Records without the column are left as-is.
func ExpandPortChannelMembers(records []tableapi.Record) error {
	for i, rec := range records {
		raw, ok := rec["members"]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("record %d: members is %T, not a string", i, raw)
		}
		members, err := ParsePortChannelMembers(s)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		rec["members"] = members
	}
	return nil
}

// FetchPortChannels fetches <Technology | Port-channels | Member status>
// with the members column expanded.
func (c *Client) FetchPortChannels(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	resp, err := c.FetchTable(ctx, TablePortChannels, tableapi.NewRequest(PortChannelColumns...).WithFilters(f))
	if err != nil {
		return nil, err
	}
	if err := ExpandPortChannelMembers(resp.Records); err != nil {
		return nil, fmt.Errorf("table %s: %w", strings.Trim(TablePortChannels, "/"), err)
	}
	return resp, nil
}
