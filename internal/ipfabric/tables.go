package ipfabric

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivoronin/ipfq/internal/filter"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

// Table paths relative to /tables.
const (
	TableDevices    = "/inventory/devices"
	TableInterfaces = "/inventory/interfaces"
	TableParts      = "/inventory/pn"
	TableManagedIPs = "/addressing/managed-devs"
	TableNeighbors  = "/neighbors/all"
)

// Intent-check colors used by the color filter form.
const (
	ColorGreen = 0
	ColorBlue  = 10
	ColorAmber = 20
	ColorRed   = 30
)

// partNumbersReport is the intent-check report backing the optics view.
const partNumbersReport = "/inventory/part-numbers"

// opticsFilter keeps part numbers whose pid intent check is green.
var opticsFilter = filter.MustClause("pid", filter.FormColor, filter.OpEqual, ColorGreen).Tree()

// Default column sets for the inventory tables.
var (
	DeviceColumns = []string{
		"sn", "snHw", "hostname", "siteName", "loginIp", "loginType",
		"uptime", "vendor", "platform", "family", "version", "model",
	}
	InterfaceColumns = []string{"hostname", "intName", "siteName", "dscr"}
	PartColumns      = []string{
		"deviceSn", "hostname", "siteName", "name", "dscr", "pid",
		"sn", "vid", "vendor", "platform", "model",
	}
	ManagedIPColumns = []string{"sn", "snHw", "hostname", "intName", "siteName", "mac", "ip", "net"}
	CablingColumns   = []string{"localHost", "localInt", "siteName", "remoteHost", "remoteIp", "remoteInt"}
)

// FetchTable posts req to /tables/<table> and decodes the response.
func (c *Client) FetchTable(ctx context.Context, table string, req *tableapi.Request) (*tableapi.Response, error) {
	table = strings.Trim(table, "/")
	if table == "" {
		return nil, fmt.Errorf("table path is required")
	}

	body, err := req.Body()
	if err != nil {
		return nil, err
	}

	c.log.WithField("table", table).Debugf("Fetching table: %s", body)

	data, err := c.post(ctx, "tables/"+table, body)
	if err != nil {
		return nil, err
	}

	resp, err := tableapi.ParseResponse(data)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}
	return resp, nil
}

// FetchDevices fetches <Inventory | Devices>.
func (c *Client) FetchDevices(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	return c.FetchTable(ctx, TableDevices, tableapi.NewRequest(DeviceColumns...).WithFilters(f))
}

// FetchInterfaces fetches <Inventory | Interfaces>.
func (c *Client) FetchInterfaces(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	return c.FetchTable(ctx, TableInterfaces, tableapi.NewRequest(InterfaceColumns...).WithFilters(f))
}

// FetchManagedIPs fetches <Technology | Addressing | Managed IPs>.
func (c *Client) FetchManagedIPs(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	return c.FetchTable(ctx, TableManagedIPs, tableapi.NewRequest(ManagedIPColumns...).WithFilters(f))
}

// FetchParts fetches <Technology | Part numbers>.
func (c *Client) FetchParts(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	return c.FetchTable(ctx, TableParts, tableapi.NewRequest(PartColumns...).WithFilters(f))
}

// FetchCabling fetches <Technology | Neighbors | All>.
func (c *Client) FetchCabling(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	return c.FetchTable(ctx, TableNeighbors, tableapi.NewRequest(CablingColumns...).WithFilters(f))
}

// OpticsRequest narrows req to part numbers whose pid passes the optics
// intent check.
func OpticsRequest(req *tableapi.Request) *tableapi.Request {
	return req.AddFilter(opticsFilter).WithReports(partNumbersReport)
}

// FetchOptics fetches part numbers whose pid passes the optics intent check.
func (c *Client) FetchOptics(ctx context.Context, f filter.Tree) (*tableapi.Response, error) {
	req := OpticsRequest(tableapi.NewRequest(PartColumns...).WithFilters(f))
	return c.FetchTable(ctx, TableParts, req)
}
