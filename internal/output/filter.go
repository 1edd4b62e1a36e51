package output

import (
	"encoding/json"
	"strings"

	"github.com/ivoronin/ipfq/internal/filter"
)

// indentUnit is the per-level indentation of the filter outline.
const indentUnit = "  "

// FilterOutput implements Formatter for a compiled filter expression.
// Text is an indented outline of the expression; JSON is the wire tree.
type FilterOutput struct {
	Node filter.Node
}

// FormatText returns one line per group and clause, children indented
// under their group.
func (f *FilterOutput) FormatText() string {
	var b strings.Builder
	writeNode(&b, f.Node, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeNode(b *strings.Builder, n filter.Node, depth int) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	g, ok := n.(*filter.Group)
	if !ok {
		b.WriteString(n.String())
		b.WriteByte('\n')
		return
	}
	b.WriteString(string(g.Op))
	b.WriteByte('\n')
	for _, c := range g.Children {
		writeNode(b, c, depth+1)
	}
}

// FormatJSON returns the wire tree sent to the table API.
func (f *FilterOutput) FormatJSON() ([]byte, error) {
	return json.MarshalIndent(f.Node.Tree(), "", "  ")
}

// OperatorList implements Formatter for the operator reference.
type OperatorList struct {
	Operators []filter.OperatorInfo
}

// FormatText returns TOKEN, WIRE, DESCRIPTION columns.
func (l *OperatorList) FormatText() string {
	if len(l.Operators) == 0 {
		return ""
	}

	tw := NewTableWriter()
	tw.Header("TOKEN", "WIRE", "DESCRIPTION")
	for _, o := range l.Operators {
		tw.Row(o.Token, string(o.Wire), o.Description)
	}
	return tw.String()
}

// FormatJSON returns JSON array output.
func (l *OperatorList) FormatJSON() ([]byte, error) {
	out := make([]jsonOperator, len(l.Operators))
	for i, o := range l.Operators {
		out[i] = jsonOperator{Token: o.Token, Wire: string(o.Wire), Description: o.Description}
	}
	return json.MarshalIndent(out, "", "  ")
}

type jsonOperator struct {
	Token       string `json:"token"`
	Wire        string `json:"wire"`
	Description string `json:"description"`
}
