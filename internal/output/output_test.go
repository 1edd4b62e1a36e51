package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ivoronin/ipfq/internal/filter"
	"github.com/ivoronin/ipfq/internal/ipfabric"
	"github.com/ivoronin/ipfq/internal/tableapi"
)

type failingFormatter struct{}

func (failingFormatter) FormatText() string          { return "" }
func (failingFormatter) FormatJSON() ([]byte, error) { return nil, errors.New("boom") }

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := Print(&buf, &VersionInfo{Version: "1.2.3"}, FormatText); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "ipfq 1.2.3\n" {
		t.Errorf("Print text = %q", buf.String())
	}

	buf.Reset()
	if err := Print(&buf, &RecordTable{Columns: []string{"a"}}, FormatText); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty table should print nothing, got %q", buf.String())
	}

	if err := Print(&buf, failingFormatter{}, FormatJSON); err == nil {
		t.Error("expected JSON error to propagate")
	}
}

func TestFormatFor(t *testing.T) {
	if FormatFor(true) != FormatJSON {
		t.Error("FormatFor(true) should be FormatJSON")
	}
	if FormatFor(false) != FormatText {
		t.Error("FormatFor(false) should be FormatText")
	}
}

func TestRecordTable_FormatText(t *testing.T) {
	resp := &tableapi.Response{Records: []tableapi.Record{
		{"hostname": "sw1", "siteName": "atl", "uptime": float64(3600)},
		{"hostname": "sw2", "siteName": nil, "extra": "ignored"},
	}}
	out := NewRecordTable([]string{"hostname", "siteName", "uptime"}, resp).FormatText()

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "hostname") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "3600") {
		t.Errorf("integral float should print without decimals: %q", lines[1])
	}
	if strings.Count(lines[2], "-") != 2 {
		t.Errorf("missing and null cells should print as '-': %q", lines[2])
	}
	if strings.Contains(out, "ignored") {
		t.Error("columns outside the selection should not be printed")
	}
}

func TestRecordTable_FormatJSON(t *testing.T) {
	table := NewRecordTable([]string{"hostname", "vlan"}, &tableapi.Response{Records: []tableapi.Record{
		{"hostname": "sw1", "vlan": float64(10), "extra": true},
	}})

	data, err := table.FormatJSON()
	if err != nil {
		t.Fatal(err)
	}

	var parsed []map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("len = %d, want 1", len(parsed))
	}
	if parsed[0]["hostname"] != "sw1" || parsed[0]["vlan"] != float64(10) {
		t.Errorf("row = %v", parsed[0])
	}
	if _, ok := parsed[0]["extra"]; ok {
		t.Error("extra column should be dropped")
	}

	empty, err := NewRecordTable([]string{"a"}, nil).FormatJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(empty) != "[]" {
		t.Errorf("empty table should produce [], got: %s", empty)
	}
}

func TestSnapshotList(t *testing.T) {
	list := &SnapshotList{Snapshots: []ipfabric.Snapshot{
		{
			ID: "d3bd033e", Name: "weekly", State: ipfabric.SnapshotLoaded, Status: "done",
			Devices: 42, Locked: true,
			Start: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{ID: "aa11", State: ipfabric.SnapshotUnloaded},
	}}

	text := list.FormatText()
	for _, want := range []string{"ID", "d3bd033e", "weekly", "loaded", "42", "2025-01-15 10:30", "true", "unloaded"} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q:\n%s", want, text)
		}
	}

	data, err := list.FormatJSON()
	if err != nil {
		t.Fatal(err)
	}
	var parsed []map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed[0]["start"] != "2025-01-15T10:30:00Z" {
		t.Errorf("start = %v", parsed[0]["start"])
	}
	if _, ok := parsed[0]["end"]; ok {
		t.Error("zero end time should be omitted")
	}
	if parsed[1]["locked"] != false {
		t.Errorf("locked = %v, want false", parsed[1]["locked"])
	}

	if (&SnapshotList{}).FormatText() != "" {
		t.Error("empty list should produce no text")
	}
}

func TestFilterOutput(t *testing.T) {
	n, err := filter.Parse("or(and(site = atl, hostname has core), vendor = cisco)")
	if err != nil {
		t.Fatal(err)
	}
	fo := &FilterOutput{Node: n}

	want := "or\n  and\n    site = atl\n    hostname ~ core\n  vendor = cisco"
	if got := fo.FormatText(); got != want {
		t.Errorf("FormatText =\n%s\nwant\n%s", got, want)
	}

	data, err := fo.FormatJSON()
	if err != nil {
		t.Fatal(err)
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	children, ok := parsed["or"].([]interface{})
	if !ok || len(children) != 2 {
		t.Fatalf("or children = %v", parsed["or"])
	}
}

func TestFilterOutput_Clause(t *testing.T) {
	n, err := filter.Parse("uptime color > 0")
	if err != nil {
		t.Fatal(err)
	}
	if got := (&FilterOutput{Node: n}).FormatText(); got != "uptime color > 0" {
		t.Errorf("FormatText = %q", got)
	}
}

func TestOperatorList(t *testing.T) {
	list := &OperatorList{Operators: filter.Operators()}

	text := list.FormatText()
	if !strings.Contains(text, "TOKEN") || !strings.Contains(text, "notlike") {
		t.Errorf("unexpected operator table:\n%s", text)
	}
	if lines := strings.Count(text, "\n") + 1; lines != len(list.Operators)+1 {
		t.Errorf("expected %d lines, got %d", len(list.Operators)+1, lines)
	}

	data, err := list.FormatJSON()
	if err != nil {
		t.Fatal(err)
	}
	var parsed []map[string]string
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed[0]["token"] != "=" || parsed[0]["wire"] != "eq" {
		t.Errorf("first operator = %v", parsed[0])
	}
}

func TestVersionInfo(t *testing.T) {
	v := &VersionInfo{Version: "dev", ServerRelease: "6.3.1", APIVersion: "v6.3"}
	if got := v.FormatText(); got != "ipfq dev\nserver 6.3.1 (api v6.3)" {
		t.Errorf("FormatText = %q", got)
	}

	data, err := (&VersionInfo{Version: "dev"}).FormatJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"version":"dev"}` {
		t.Errorf("FormatJSON = %s", data)
	}
}
