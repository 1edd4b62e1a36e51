// Package filter compiles IP Fabric filter expressions into the nested
// filter structure consumed by the table API.
package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Operator is a wire-format operator code understood by the table API.
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "neq"
	OpLike         Operator = "like"
	OpNotLike      Operator = "notlike"
	OpRegex        Operator = "reg"
	OpNotRegex     Operator = "nreg"
	OpEmpty        Operator = "empty"
	OpCIDR         Operator = "cidr"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "gte"
)

// GroupOp is a logical combinator.
type GroupOp string

const (
	GroupAnd GroupOp = "and"
	GroupOr  GroupOp = "or"
)

// Form selects what the right-hand side of a clause is compared against.
type Form int

const (
	// FormValue compares a column to a literal.
	FormValue Form = iota
	// FormColumn compares a column to another column of the same record.
	FormColumn
	// FormColor compares the intent-check color of a column.
	FormColor
)

// Wire prefixes for the column and color forms.
const (
	columnKeyword = "column"
	colorKeyword  = "color"
)

// Tree is the wire mapping handed to the table API under "filters".
// A clause maps a column name to []any; a group maps "and"/"or" to []Tree.
type Tree map[string]any

// JSON returns the wire encoding of the tree.
func (t Tree) JSON() ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Node is a parsed filter expression: either a *Clause or a *Group.
type Node interface {
	// Tree reduces the node to its wire mapping.
	Tree() Tree
	// String renders the node as canonical expression text.
	String() string
}

// Clause is a single condition over one column.
type Clause struct {
	Column   string
	Form     Form
	Operator Operator
	Value    any // string, int or bool; a column name for FormColumn
}

// NewClause builds a clause programmatically. The operator must be valid
// for the form and the value must have a type the form accepts.
func NewClause(column string, form Form, op Operator, value any) (*Clause, error) {
	if !columnRe.MatchString(column) {
		return nil, fmt.Errorf("invalid column name %q", column)
	}
	if _, ok := canonicalTokens[op]; !ok {
		return nil, fmt.Errorf("unknown operator %q", op)
	}

	switch form {
	case FormValue:
		if op == OpEmpty {
			if _, ok := value.(bool); !ok {
				return nil, fmt.Errorf("%s: empty operand must be a bool, got %T", column, value)
			}
			break
		}
		if !isLiteral(value) {
			return nil, fmt.Errorf("%s: operand must be a string or int, got %T", column, value)
		}
	case FormColumn:
		if !equalityOps[op] {
			return nil, fmt.Errorf("%s: operator %q is not valid for column comparison", column, op)
		}
		ref, ok := value.(string)
		if !ok || !columnRe.MatchString(ref) {
			return nil, fmt.Errorf("%s: invalid column reference %v", column, value)
		}
	case FormColor:
		if !colorOps[op] {
			return nil, fmt.Errorf("%s: operator %q is not valid for color comparison", column, op)
		}
		if !isLiteral(value) {
			return nil, fmt.Errorf("%s: color operand must be a string or int, got %T", column, value)
		}
	default:
		return nil, fmt.Errorf("unknown clause form %d", form)
	}

	return &Clause{Column: column, Form: form, Operator: op, Value: value}, nil
}

// MustClause is like NewClause but panics on error.
func MustClause(column string, form Form, op Operator, value any) *Clause {
	c, err := NewClause(column, form, op, value)
	if err != nil {
		panic(err)
	}
	return c
}

func isLiteral(v any) bool {
	switch v.(type) {
	case string, int:
		return true
	}
	return false
}

// Tree implements Node.
func (c *Clause) Tree() Tree {
	switch c.Form {
	case FormColumn:
		return Tree{c.Column: []any{columnKeyword, string(c.Operator), c.Value}}
	case FormColor:
		return Tree{c.Column: []any{colorKeyword, string(c.Operator), c.Value}}
	default:
		return Tree{c.Column: []any{string(c.Operator), c.Value}}
	}
}

// String implements Node.
func (c *Clause) String() string {
	tok := canonicalTokens[c.Operator]
	switch c.Form {
	case FormColumn:
		return c.Column + " " + columnKeyword + " " + tok + " " + formatValue(c.Value)
	case FormColor:
		return c.Column + " " + colorKeyword + " " + tok + " " + formatValue(c.Value)
	default:
		return c.Column + " " + tok + " " + formatValue(c.Value)
	}
}

// Group combines two or more nodes with a logical operator.
type Group struct {
	Op       GroupOp
	Children []Node
}

// Tree implements Node.
func (g *Group) Tree() Tree {
	children := make([]Tree, 0, len(g.Children))
	for _, c := range g.Children {
		children = append(children, c.Tree())
	}
	return Tree{string(g.Op): children}
}

// String implements Node.
func (g *Group) String() string {
	parts := make([]string, 0, len(g.Children))
	for _, c := range g.Children {
		parts = append(parts, c.String())
	}
	return string(g.Op) + "(" + strings.Join(parts, ", ") + ")"
}

// formatValue renders an operand so that it lexes back to the same value.
func formatValue(v any) string {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case string:
		if bareWordRe.MatchString(val) && !digitsRe.MatchString(val) {
			return val
		}
		if strings.Contains(val, "'") {
			return `"` + val + `"`
		}
		return "'" + val + "'"
	default:
		return "''"
	}
}
