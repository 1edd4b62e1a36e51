package output

import (
	"encoding/json"

	"github.com/ivoronin/ipfq/internal/tableapi"
)

// RecordTable implements Formatter for table API rows.
// Columns fixes the column order; records may carry extra keys.
type RecordTable struct {
	Columns []string
	Records []tableapi.Record
}

// NewRecordTable creates a RecordTable from a table response.
func NewRecordTable(columns []string, resp *tableapi.Response) *RecordTable {
	t := &RecordTable{Columns: columns}
	if resp != nil {
		t.Records = resp.Records
	}
	return t
}

// FormatText returns one aligned row per record, headed by the column names.
func (t *RecordTable) FormatText() string {
	if len(t.Records) == 0 {
		return ""
	}

	tw := NewTableWriter()
	tw.Header(t.Columns...)

	values := make([]string, len(t.Columns))
	for _, rec := range t.Records {
		for i, col := range t.Columns {
			values[i] = rec.Text(col)
		}
		tw.Row(values...)
	}

	return tw.String()
}

// FormatJSON returns the records as a JSON array, restricted to Columns.
func (t *RecordTable) FormatJSON() ([]byte, error) {
	if len(t.Records) == 0 {
		return []byte("[]"), nil
	}

	rows := make([]map[string]any, len(t.Records))
	for i, rec := range t.Records {
		row := make(map[string]any, len(t.Columns))
		for _, col := range t.Columns {
			row[col] = rec[col]
		}
		rows[i] = row
	}
	return json.MarshalIndent(rows, "", "  ")
}
