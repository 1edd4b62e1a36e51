package filter

import "fmt"

// OperatorInfo describes one accepted operator spelling.
type OperatorInfo struct {
	Token       string
	Wire        Operator
	Description string
}

// operatorTable lists every accepted token. Aliases from older dialects
// (has, !has, empty, /) map to the same wire code as their symbol.
var operatorTable = []OperatorInfo{
	{"=", OpEqual, "equals"},
	{"!=", OpNotEqual, "not equals"},
	{"~", OpLike, "substring match"},
	{"has", OpLike, "substring match"},
	{"!~", OpNotLike, "substring non-match"},
	{"!has", OpNotLike, "substring non-match"},
	{"=~", OpRegex, "regex match"},
	{"!=~", OpNotRegex, "regex non-match"},
	{"?", OpEmpty, "emptiness test (true|false)"},
	{"empty", OpEmpty, "emptiness test (true|false)"},
	{"net", OpCIDR, "CIDR membership"},
	{"/", OpCIDR, "CIDR membership"},
	{"<", OpLess, "less than"},
	{"<=", OpLessEqual, "less than or equal"},
	{">", OpGreater, "greater than"},
	{">=", OpGreaterEqual, "greater than or equal"},
}

var (
	operatorTokens  = make(map[string]Operator, len(operatorTable))
	canonicalTokens = make(map[Operator]string)
)

// Operators the column and color forms accept.
var (
	equalityOps = map[Operator]bool{OpEqual: true, OpNotEqual: true}
	colorOps    = map[Operator]bool{
		OpEqual: true, OpNotEqual: true,
		OpLess: true, OpLessEqual: true, OpGreater: true, OpGreaterEqual: true,
	}
)

func init() {
	for _, o := range operatorTable {
		if _, dup := operatorTokens[o.Token]; dup {
			panic(fmt.Sprintf("filter: duplicate operator token %q", o.Token))
		}
		operatorTokens[o.Token] = o.Wire
		// First spelling wins; "net" is preferred over "/" since it needs no spacing.
		if _, ok := canonicalTokens[o.Wire]; !ok {
			canonicalTokens[o.Wire] = o.Token
		}
	}

	// Every spelling the grammar accepts must have a wire code, and every
	// table entry must be reachable from the grammar.
	accepted := make(map[string]bool, len(operatorTable))
	for _, tok := range append(append([]string{}, lexerOperators...), grammarKeywords...) {
		if _, ok := operatorTokens[tok]; !ok {
			panic(fmt.Sprintf("filter: grammar operator %q missing from operator table", tok))
		}
		accepted[tok] = true
	}
	for _, o := range operatorTable {
		if !accepted[o.Token] {
			panic(fmt.Sprintf("filter: operator %q is not accepted by the grammar", o.Token))
		}
	}
}

// Operators returns the accepted operator tokens in display order.
func Operators() []OperatorInfo {
	out := make([]OperatorInfo, len(operatorTable))
	copy(out, operatorTable)
	return out
}

// LookupOperator maps an expression token to its wire code.
func LookupOperator(token string) (Operator, bool) {
	op, ok := operatorTokens[token]
	return op, ok
}
