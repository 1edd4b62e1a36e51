package ipfabric

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ivoronin/ipfq/internal/tableapi"
)

func TestParsePortChannelMembers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []PortChannelMember
	}{
		{"empty", "", nil},
		{"single", "Eth1/1(P)", []PortChannelMember{{"Eth1/1", MemberUpBundled}}},
		{"several", "Gi0/1(UP), Gi0/2(D), Te1/0/1(BNDL)", []PortChannelMember{
			{"Gi0/1", MemberUp},
			{"Gi0/2", MemberInactive},
			{"Te1/0/1", MemberBundled},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePortChannelMembers(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePortChannelMembersErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		errText string
	}{
		{"no state", "Eth1/1", "unable to parse"},
		{"bad separator", "Eth1/1(P);Eth1/2(P)", "unable to parse"},
		{"unknown state", "Eth1/1(X)", "unknown port-channel member state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePortChannelMembers(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestExpandPortChannelMembers(t *testing.T) {
	records := []tableapi.Record{
		{"intName": "Po1", "members": "Eth1/1(P), Eth1/2(S)"},
		{"intName": "Po2", "members": nil},
		{"intName": "Po3"},
	}
	require.NoError(t, ExpandPortChannelMembers(records))

	assert.Equal(t, []PortChannelMember{{"Eth1/1", MemberUpBundled}, {"Eth1/2", MemberSuspended}}, records[0]["members"])
	assert.Nil(t, records[1]["members"])
	assert.NotContains(t, records[2], "members")

	// Expanded members render as JSON in text tables.
	assert.Equal(t, `[{"intName":"Eth1/1","state":"P"},{"intName":"Eth1/2","state":"S"}]`, records[0].Text("members"))

	err := ExpandPortChannelMembers([]tableapi.Record{{"members": float64(1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 0")
}

func TestFetchPortChannels(t *testing.T) {
	api, srv := newFakeAPI(t, map[string]fakeResponse{
		"/api/v1/tables/interfaces/port-channel/member-status": {http.StatusOK, `{
			"data": [{"hostname": "sw1", "intName": "Po10", "protocol": "lacp", "members": "Eth1/49(P), Eth1/50(I)"}],
			"_meta": {"count": 1}
		}`},
	})
	c := newTestClient(t, srv, "")

	resp, err := c.FetchPortChannels(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, resp.Records, 1)
	assert.Equal(t,
		[]PortChannelMember{{"Eth1/49", MemberUpBundled}, {"Eth1/50", MemberUpNotBundled}},
		resp.Records[0]["members"])

	got := api.last()
	var cols []string
	for _, col := range gjson.GetBytes(got.Body, "columns").Array() {
		cols = append(cols, col.String())
	}
	assert.Equal(t, PortChannelColumns, cols)
}

func TestFetchPortChannelsBadMembers(t *testing.T) {
	_, srv := newFakeAPI(t, map[string]fakeResponse{
		"/api/v1/tables/interfaces/port-channel/member-status": {http.StatusOK, `{"data": [{"members": "garbage"}]}`},
	})
	c := newTestClient(t, srv, "")

	_, err := c.FetchPortChannels(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interfaces/port-channel/member-status")
}
