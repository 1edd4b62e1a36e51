// Package tableapi builds IP Fabric table requests and reads their responses.
package tableapi

import (
	"errors"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/ivoronin/ipfq/internal/filter"
)

// LastSnapshot selects the most recent loaded snapshot.
const LastSnapshot = "$last"

// Sort orders.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Request body field names.
const (
	fieldSnapshot   = "snapshot"
	fieldColumns    = "columns"
	fieldFilters    = "filters"
	fieldPagination = "pagination"
	fieldSort       = "sort"
	fieldReports    = "reports"
)

// ErrNoColumns is returned when a request has no columns.
var ErrNoColumns = errors.New("table request requires at least one column")

// Pagination limits the returned rows.
type Pagination struct {
	Limit int `json:"limit"`
	Start int `json:"start"`
}

// Sort orders the returned rows by one column.
type Sort struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// Request describes a table query. Filters is placed under "filters" as-is.
type Request struct {
	Snapshot   string
	Columns    []string
	Filters    filter.Tree
	Pagination *Pagination
	Sort       *Sort
	Reports    string
}

// NewRequest creates a request for the latest snapshot.
func NewRequest(columns ...string) *Request {
	return &Request{Snapshot: LastSnapshot, Columns: columns}
}

// WithSnapshot selects a snapshot id.
func (r *Request) WithSnapshot(id string) *Request {
	r.Snapshot = id
	return r
}

// WithFilters replaces the filters.
func (r *Request) WithFilters(t filter.Tree) *Request {
	r.Filters = t
	return r
}

// WithPagination sets limit and start.
func (r *Request) WithPagination(limit, start int) *Request {
	r.Pagination = &Pagination{Limit: limit, Start: start}
	return r
}

// WithSort orders by column; order is SortAsc or SortDesc.
func (r *Request) WithSort(column, order string) *Request {
	r.Sort = &Sort{Column: column, Order: order}
	return r
}

// WithReports sets the intent-check reports path.
func (r *Request) WithReports(path string) *Request {
	r.Reports = path
	return r
}

// AddFilter merges t into the filters. Keys in t replace existing keys of
// the same name; distinct top-level keys are ANDed by the API.
func (r *Request) AddFilter(t filter.Tree) *Request {
	if len(t) == 0 {
		return r
	}
	merged := make(filter.Tree, len(r.Filters)+len(t))
	for k, v := range r.Filters {
		merged[k] = v
	}
	for k, v := range t {
		merged[k] = v
	}
	r.Filters = merged
	return r
}

// Body returns the JSON request payload.
func (r *Request) Body() ([]byte, error) {
	if len(r.Columns) == 0 {
		return nil, ErrNoColumns
	}

	snapshot := r.Snapshot
	if snapshot == "" {
		snapshot = LastSnapshot
	}

	type field struct {
		path  string
		value any
	}
	fields := []field{
		{fieldSnapshot, snapshot},
		{fieldColumns, r.Columns},
	}
	if r.Filters != nil {
		fields = append(fields, field{fieldFilters, r.Filters})
	} else {
		fields = append(fields, field{fieldFilters, map[string]any{}})
	}
	if r.Pagination != nil {
		fields = append(fields, field{fieldPagination, r.Pagination})
	}
	if r.Sort != nil {
		fields = append(fields, field{fieldSort, r.Sort})
	}
	if r.Reports != "" {
		fields = append(fields, field{fieldReports, r.Reports})
	}

	body := []byte("{}")
	for _, f := range fields {
		var err error
		body, err = sjson.SetBytes(body, f.path, f.value)
		if err != nil {
			return nil, fmt.Errorf("encode table request %s: %w", f.path, err)
		}
	}
	return body, nil
}
