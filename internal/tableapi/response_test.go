package tableapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	body := []byte(`{
		"data": [
			{"hostname": "sw1", "uptime": 3600, "siteName": "atl"},
			{"hostname": "sw2", "uptime": null, "siteName": "chc"}
		],
		"_meta": {"limit": 100, "start": 0, "count": 2, "size": 250}
	}`)

	resp, err := ParseResponse(body)
	require.NoError(t, err)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, Meta{Count: 2, Size: 250, Limit: 100, Start: 0}, resp.Meta)
	assert.Equal(t, "sw1", resp.Records[0]["hostname"])
	assert.Equal(t, "3600", resp.Records[0].Text("uptime"))
	assert.Equal(t, "-", resp.Records[1].Text("uptime"))
}

func TestParseResponseWithoutMeta(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"data": [{"a": 1}, {"a": 2}, {"a": 3}]}`))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Meta.Count)
}

func TestParseResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"missing data", `{"_meta": {"count": 0}}`},
		{"data not array", `{"data": {}}`},
		{"row not object", `{"data": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse([]byte(tt.body))
			require.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestRecordText(t *testing.T) {
	rec := Record{
		"s":     "text",
		"empty": "",
		"int":   float64(42),
		"float": 1.5,
		"bool":  true,
		"list":  []any{"a", "b"},
		"null":  nil,
	}

	tests := map[string]string{
		"s":       "text",
		"empty":   "-",
		"int":     "42",
		"float":   "1.5",
		"bool":    "true",
		"list":    `["a","b"]`,
		"null":    "-",
		"missing": "-",
	}
	for col, want := range tests {
		assert.Equal(t, want, rec.Text(col), col)
	}
}
