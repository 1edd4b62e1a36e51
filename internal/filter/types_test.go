package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeStringRoundTrip(t *testing.T) {
	tests := []string{
		"hostname = Foo",
		"and(site = atl, hostname has sw2, vendor = cisco)",
		"or(and(site = atl, hostname has 'core'), and(site = chc, hostname =~ '.*switch2[12]'))",
		"uptime color > 0",
		"l1 column = l2",
		"sn = '123'",
		"dscr = ''",
		`dscr = "it's"`,
		"dscr ? TRUE",
		"ip / 10.0.0.0/8",
		"x !has y",
		"and(a=1, or(b=2, c=3))",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			n, err := Parse(expr)
			require.NoError(t, err)

			again, err := Compile(n.String())
			require.NoError(t, err, "canonical form %q", n.String())
			assert.Equal(t, n.Tree(), again)
		})
	}
}

func TestNodeStringCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hostname has sw2", "hostname ~ sw2"},
		{"ip / 10.0.0.0/8", "ip net 10.0.0.0/8"},
		{"dscr empty false", "dscr ? false"},
		{"and(a=1,b!has 'x y')", "and(a = 1, b !~ 'x y')"},
		{"sn = '42'", "sn = '42'"},
		{"l1 column!=l2", "l1 column != l2"},
		{"uptime color>=10", "uptime color >= 10"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestTreeJSON(t *testing.T) {
	tree, err := Compile("and(hostname = Boo, uptime color > 0, l1 column = l2)")
	require.NoError(t, err)

	data, err := tree.JSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"and":[{"hostname":["eq","Boo"]},{"uptime":["color","gt",0]},{"l1":["column","eq","l2"]}]}`,
		string(data))

	var nilTree Tree
	data, err = nilTree.JSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

// Coerced literal types survive a JSON round trip: ints stay numbers,
// strings stay strings.
func TestTreeJSONKeepsLiteralTypes(t *testing.T) {
	tree, err := Compile("and(vlan = 10, sn = '10', name = ten)")
	require.NoError(t, err)

	data, err := tree.JSON()
	require.NoError(t, err)

	var decoded map[string][]map[string][]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	children := decoded["and"]
	require.Len(t, children, 3)
	assert.IsType(t, float64(0), children[0]["vlan"][1])
	assert.IsType(t, "", children[1]["sn"][1])
	assert.IsType(t, "", children[2]["name"][1])
}

func TestOperators(t *testing.T) {
	ops := Operators()
	require.Len(t, ops, 16)

	seen := make(map[string]bool)
	for _, o := range ops {
		assert.False(t, seen[o.Token], "duplicate token %q", o.Token)
		seen[o.Token] = true

		wire, ok := LookupOperator(o.Token)
		require.True(t, ok)
		assert.Equal(t, o.Wire, wire)

		// Every spelling compiles to its wire code.
		value := "v"
		if wire == OpEmpty {
			value = "true"
		}
		tree, err := Compile("x " + o.Token + " " + value)
		require.NoError(t, err, o.Token)
		assert.Equal(t, string(wire), tree["x"].([]any)[0], o.Token)
	}

	// Mutating the returned slice does not affect the table.
	ops[0].Token = "changed"
	assert.Equal(t, "=", Operators()[0].Token)
}

func TestGrammarOperatorsMatchTable(t *testing.T) {
	grammar := append(append([]string{}, lexerOperators...), grammarKeywords...)
	assert.Len(t, grammar, len(Operators()))
	for _, tok := range grammar {
		_, ok := LookupOperator(tok)
		assert.True(t, ok, tok)
	}

	assert.Equal(t, `!has\b|!=~|!=|!~|=~|<=|>=|=|<|>|~|\?`, operatorPattern())

	// The word boundary keeps "!has" from splitting a longer word.
	_, err := Compile("x !hasty")
	require.Error(t, err)
}

func TestLookupOperatorUnknown(t *testing.T) {
	_, ok := LookupOperator(">>")
	assert.False(t, ok)
}

func TestNewClause(t *testing.T) {
	c, err := NewClause("pid", FormColor, OpEqual, 0)
	require.NoError(t, err)
	assert.Equal(t, Tree{"pid": []any{"color", "eq", 0}}, c.Tree())
	assert.Equal(t, "pid color = 0", c.String())

	c, err = NewClause("dscr", FormValue, OpEmpty, false)
	require.NoError(t, err)
	assert.Equal(t, Tree{"dscr": []any{"empty", false}}, c.Tree())

	c, err = NewClause("l1", FormColumn, OpNotEqual, "l2")
	require.NoError(t, err)
	assert.Equal(t, "l1 column != l2", c.String())
}

func TestNewClauseErrors(t *testing.T) {
	tests := []struct {
		name   string
		column string
		form   Form
		op     Operator
		value  any
	}{
		{"bad column", "a.b", FormValue, OpEqual, "x"},
		{"unknown operator", "a", FormValue, Operator("xx"), "x"},
		{"empty needs bool", "a", FormValue, OpEmpty, "true"},
		{"value needs literal", "a", FormValue, OpEqual, 1.5},
		{"column form ordering", "a", FormColumn, OpLess, "b"},
		{"column form bad ref", "a", FormColumn, OpEqual, "b c"},
		{"column form non-string", "a", FormColumn, OpEqual, 1},
		{"color form like", "a", FormColor, OpLike, 1},
		{"color form bool", "a", FormColor, OpEqual, true},
		{"unknown form", "a", Form(9), OpEqual, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClause(tt.column, tt.form, tt.op, tt.value)
			assert.Error(t, err)
		})
	}

	assert.Panics(t, func() { MustClause("a", FormColor, OpLike, 1) })
}
