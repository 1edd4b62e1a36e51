package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// AST types for Participle grammar

// expression is the root of the grammar and every group item: a group or a clause.
type expression struct {
	Group  *groupExpr  `parser:"  @@"`
	Clause *clauseExpr `parser:"| @@"`
}

// groupExpr is and(...) / or(...) with at least two items.
type groupExpr struct {
	Op    string        `parser:"@( 'and' | 'or' ) '('"`
	Items []*expression `parser:"@@ ( ',' @@ )+ ')'"`
}

// clauseExpr is column followed by one of the three right-hand side forms.
type clauseExpr struct {
	Pos    lexer.Position
	Column string       `parser:"@Word"`
	Ref    *columnRHS   `parser:"( @@"`
	Color  *colorRHS    `parser:"| @@"`
	Cmp    *operatorRHS `parser:"| @@ )"`
}

type columnRHS struct {
	Pos    lexer.Position
	Op     string `parser:"'column' @( '=' | '!=' )"`
	Column string `parser:"@Word"`
}

type colorRHS struct {
	Op    string     `parser:"'color' @( '<=' | '>=' | '<' | '>' | '=' | '!=' )"`
	Value *valueExpr `parser:"@@"`
}

type operatorRHS struct {
	Op    string     `parser:"@( Operator | 'has' | 'net' | 'empty' | '/' )"`
	Value *valueExpr `parser:"@@"`
}

type valueExpr struct {
	Quoted *string `parser:"  @String"`
	Bare   *string `parser:"| @Word"`
}

// lexerOperators are the spellings lexed as Operator tokens.
// IMPORTANT: multi-character operators come before their prefixes so the
// longest token wins (!=~ before != and =~, <= before <).
var lexerOperators = []string{"!has", "!=~", "!=", "!~", "=~", "<=", ">=", "=", "<", ">", "~", "?"}

// grammarKeywords are the operator spellings lexed as Word tokens and
// matched by operatorRHS.
var grammarKeywords = []string{"has", "net", "empty", "/"}

// operatorPattern joins lexerOperators into one alternation. Spellings ending
// in a letter need a word boundary so "!hasty" is not "!has" + "ty".
func operatorPattern() string {
	alts := make([]string, len(lexerOperators))
	for i, tok := range lexerOperators {
		alts[i] = regexp.QuoteMeta(tok)
		if last := tok[len(tok)-1]; last >= 'a' && last <= 'z' {
			alts[i] += `\b`
		}
	}
	return strings.Join(alts, "|")
}

// Build the lexer
var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "Operator", Pattern: operatorPattern()},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Word", Pattern: `[-\w./:]+`},
})

// Build the parser
var filterParser = participle.MustBuild[expression](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
)

var (
	columnRe   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	bareWordRe = regexp.MustCompile(`^[-\w./:]+$`)
	digitsRe   = regexp.MustCompile(`^[0-9]+$`)
)

// Compile parses a filter expression and reduces it to the wire mapping, e.g.
// "and(site = atl, hostname has sw2)" becomes
// {"and": [{"site": ["eq", "atl"]}, {"hostname": ["like", "sw2"]}]}.
func Compile(expr string) (Tree, error) {
	n, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return n.Tree(), nil
}

// Parse parses a filter expression into a Clause or Group.
func Parse(expr string) (Node, error) {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), "\n", "")
	if expr == "" {
		return nil, &ParseError{Expr: expr, Msg: "empty filter expression"}
	}

	ast, err := filterParser.ParseString("", expr)
	if err != nil {
		return nil, newParseError(expr, err)
	}

	return convertExpr(expr, ast)
}

// newParseError wraps a participle error with position and offending token.
func newParseError(expr string, err error) *ParseError {
	pe := &ParseError{Expr: expr, Msg: err.Error(), Err: err}

	var perr participle.Error
	if errors.As(err, &perr) {
		pos := perr.Position()
		pe.Msg = perr.Message()
		pe.Offset = pos.Offset
		pe.Line = pos.Line
		pe.Column = pos.Column
		pe.Token = tokenAt(expr, pos.Offset)
	}
	return pe
}

func convertExpr(expr string, e *expression) (Node, error) {
	if e.Group != nil {
		return convertGroup(expr, e.Group)
	}
	return convertClause(expr, e.Clause)
}

func convertGroup(expr string, g *groupExpr) (Node, error) {
	group := &Group{Op: GroupOp(g.Op), Children: make([]Node, 0, len(g.Items))}
	for _, item := range g.Items {
		child, err := convertExpr(expr, item)
		if err != nil {
			return nil, err
		}
		group.Children = append(group.Children, child)
	}
	return group, nil
}

// convertClause converts AST clause to a Clause, coercing its operand.
func convertClause(expr string, c *clauseExpr) (Node, error) {
	if !columnRe.MatchString(c.Column) {
		return nil, invalidColumn(expr, c.Column, c.Pos)
	}

	switch {
	case c.Ref != nil:
		if !columnRe.MatchString(c.Ref.Column) {
			return nil, invalidColumn(expr, c.Ref.Column, c.Ref.Pos)
		}
		return &Clause{
			Column:   c.Column,
			Form:     FormColumn,
			Operator: operatorTokens[c.Ref.Op],
			Value:    c.Ref.Column,
		}, nil

	case c.Color != nil:
		return &Clause{
			Column:   c.Column,
			Form:     FormColor,
			Operator: operatorTokens[c.Color.Op],
			Value:    c.Color.Value.coerce(),
		}, nil

	default:
		op := operatorTokens[c.Cmp.Op]
		clause := &Clause{Column: c.Column, Form: FormValue, Operator: op}
		if op == OpEmpty {
			raw := c.Cmp.Value.text()
			b, err := parseEmptyOperand(raw)
			if err != nil {
				return nil, &SemanticError{
					Expr:   expr,
					Clause: c.Column + " " + c.Cmp.Op + " " + raw,
					Column: c.Column,
					Value:  raw,
					Msg:    err.Error(),
				}
			}
			clause.Value = b
			return clause, nil
		}
		clause.Value = c.Cmp.Value.coerce()
		return clause, nil
	}
}

// invalidColumn reports a column token found at or after pos.
func invalidColumn(expr, column string, pos lexer.Position) *ParseError {
	if i := strings.Index(expr[pos.Offset:], column); i > 0 {
		pos.Offset += i
		pos.Column += i
	}
	return &ParseError{
		Expr:   expr,
		Msg:    "invalid column name",
		Token:  column,
		Offset: pos.Offset,
		Line:   pos.Line,
		Column: pos.Column,
	}
}

// parseEmptyOperand accepts only true/false, case-insensitive.
func parseEmptyOperand(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("empty operand must be true or false, got %q", s)
}

// text returns the operand with quotes stripped; no escape processing.
func (v *valueExpr) text() string {
	if v.Quoted != nil {
		q := *v.Quoted
		return q[1 : len(q)-1]
	}
	return *v.Bare
}

// coerce turns an all-digit bare word into an int; quoted values stay strings.
func (v *valueExpr) coerce() any {
	if v.Quoted != nil {
		return v.text()
	}
	s := *v.Bare
	if digitsRe.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return s
}
