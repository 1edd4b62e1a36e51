package filter

import (
	"fmt"
	"strings"
)

// ParseError reports an expression that does not match the filter grammar.
type ParseError struct {
	Expr   string
	Msg    string
	Token  string // offending token; empty at end of input
	Offset int
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid filter %q", e.Expr)
	if e.Line > 0 {
		fmt.Fprintf(&b, ": %d:%d", e.Line, e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Token != "" {
		fmt.Fprintf(&b, " (near %q)", e.Token)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// SemanticError reports a well-formed clause whose operand violates a value
// constraint.
type SemanticError struct {
	Expr   string
	Clause string
	Column string
	Value  string
	Msg    string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("invalid filter %q: clause %q: %s", e.Expr, e.Clause, e.Msg)
}

// tokenAt extracts the token starting at offset for error reporting.
func tokenAt(expr string, offset int) string {
	if offset < 0 || offset >= len(expr) {
		return ""
	}
	rest := expr[offset:]
	end := strings.IndexAny(rest, " \t\r\n(),")
	switch {
	case end == 0:
		return rest[:1]
	case end < 0:
		return rest
	default:
		return rest[:end]
	}
}
