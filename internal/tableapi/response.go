package tableapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// ErrInvalidResponse is returned when a table response is not a data envelope.
var ErrInvalidResponse = errors.New("invalid table response")

// Record is one table row keyed by column name.
type Record map[string]any

// Meta is the "_meta" block of a table response.
type Meta struct {
	Count int `json:"count"`
	Size  int `json:"size"`
	Limit int `json:"limit"`
	Start int `json:"start"`
}

// Response is a decoded table response.
type Response struct {
	Records []Record
	Meta    Meta
}

// ParseResponse decodes a {"data": [...], "_meta": {...}} envelope.
func ParseResponse(body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: not JSON", ErrInvalidResponse)
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, fmt.Errorf("%w: missing data array", ErrInvalidResponse)
	}

	resp := &Response{}
	var rowErr error
	data.ForEach(func(_, row gjson.Result) bool {
		rec, ok := row.Value().(map[string]any)
		if !ok {
			rowErr = fmt.Errorf("%w: row %d is not an object", ErrInvalidResponse, len(resp.Records))
			return false
		}
		resp.Records = append(resp.Records, Record(rec))
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	meta := gjson.GetBytes(body, "_meta")
	resp.Meta = Meta{
		Count: int(meta.Get("count").Int()),
		Size:  int(meta.Get("size").Int()),
		Limit: int(meta.Get("limit").Int()),
		Start: int(meta.Get("start").Int()),
	}
	if !meta.Get("count").Exists() {
		resp.Meta.Count = len(resp.Records)
	}

	return resp, nil
}

// Text renders a cell for display: "-" for missing or null, integral
// numbers without decimals, nested values as compact JSON.
func (r Record) Text(column string) string {
	v, ok := r[column]
	if !ok || v == nil {
		return "-"
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return "-"
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
