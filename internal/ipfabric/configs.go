package ipfabric

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/sjson"

	"github.com/ivoronin/ipfq/internal/filter"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

// Configuration management endpoints.
const (
	TableConfigs        = "/management/configuration"
	configsReport       = "/management/configuration/first"
	configDownloadPath  = "tables/management/configuration/download"
	triggerBackupPath   = "discovery/trigger-config-backup"
	configLastChangeCol = "lastChangeAt"
	configLastCheckCol  = "lastCheckAt"
)

// ConfigRefColumns is the column set for TableConfigs.
var ConfigRefColumns = []string{"id", "sn", "hostname", "lastChangeAt", "lastCheckAt", "status", "hash"}

// ErrNoBackupTarget is returned by TriggerBackup when neither IP nor SN is set.
var ErrNoBackupTarget = errors.New("backup target requires an IP or serial number")

// ConfigRef identifies one stored device configuration.
type ConfigRef struct {
	ID           string    `json:"id"`
	SN           string    `json:"sn"`
	Hostname     string    `json:"hostname"`
	LastChangeAt time.Time `json:"lastChangeAt"`
	LastCheckAt  time.Time `json:"lastCheckAt"`
	Status       string    `json:"status"`
	Hash         string    `json:"hash"`
}

// ConfigRefQuery selects configuration references.
type ConfigRefQuery struct {
	// Since is the oldest change (or check, with AllChecks) to include.
	Since time.Time
	// AllChecks filters and sorts on lastCheckAt instead of lastChangeAt.
	AllChecks bool
	// Filters are merged with the time filter.
	Filters filter.Tree
}

// FetchConfigRefs returns the newest configuration reference per device
// serial number matching q.
func (c *Client) FetchConfigRefs(ctx context.Context, q ConfigRefQuery) ([]ConfigRef, error) {
	column := configLastChangeCol
	if q.AllChecks {
		column = configLastCheckCol
	}
	since, err := filter.NewClause(column, filter.FormValue, filter.OpGreaterEqual, int(q.Since.UnixMilli()))
	if err != nil {
		return nil, err
	}

	req := tableapi.NewRequest(ConfigRefColumns...).
		WithFilters(q.Filters).
		AddFilter(since.Tree()).
		WithSort(column, tableapi.SortDesc).
		WithReports(configsReport)

	resp, err := c.FetchTable(ctx, TableConfigs, req)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(resp.Records))
	refs := make([]ConfigRef, 0, len(resp.Records))
	for _, rec := range resp.Records {
		ref := configRef(rec)
		if seen[ref.SN] {
			continue
		}
		seen[ref.SN] = true
		refs = append(refs, ref)
	}
	return refs, nil
}

func configRef(rec tableapi.Record) ConfigRef {
	str := func(col string) string {
		if s, ok := rec[col].(string); ok {
			return s
		}
		return ""
	}
	ms := func(col string) time.Time {
		if f, ok := rec[col].(float64); ok && f != 0 {
			return time.UnixMilli(int64(f)).UTC()
		}
		return time.Time{}
	}
	return ConfigRef{
		ID:           str("id"),
		SN:           str("sn"),
		Hostname:     str("hostname"),
		LastChangeAt: ms(configLastChangeCol),
		LastCheckAt:  ms(configLastCheckCol),
		Status:       str("status"),
		Hash:         str("hash"),
	}
}

// FetchDeviceConfig downloads the configuration text stored under hash.
// With sanitized set, the server masks secrets.
func (c *Client) FetchDeviceConfig(ctx context.Context, hash string, sanitized bool) (string, error) {
	if hash == "" {
		return "", fmt.Errorf("config hash is required")
	}
	query := url.Values{
		"hash":      {hash},
		"sanitized": {strconv.FormatBool(sanitized)},
	}
	data, err := c.get(ctx, configDownloadPath, query)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BackupTarget selects the device to back up. IP takes precedence.
type BackupTarget struct {
	IP string
	SN string
}

// TriggerBackup asks the server to collect a fresh configuration from one
// device. The server replies without a payload.
func (c *Client) TriggerBackup(ctx context.Context, target BackupTarget) error {
	var (
		body []byte
		err  error
	)
	switch {
	case target.IP != "":
		body, err = sjson.SetBytes([]byte(`{}`), "ip", target.IP)
	case target.SN != "":
		body, err = sjson.SetBytes([]byte(`{}`), "sn", target.SN)
	default:
		return ErrNoBackupTarget
	}
	if err != nil {
		return fmt.Errorf("build backup request: %w", err)
	}

	c.log.WithField("target", string(body)).Debug("Triggering config backup")
	_, err = c.post(ctx, triggerBackupPath, body)
	return err
}
