// Package filter models attribute expressions carried by data selectors and
// knows how to simplify their conjunctions and disjunctions.
package filter

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ErrSyntax is returned for malformed expression text.
var ErrSyntax = errors.New("invalid filter expression")

// Expr is a boolean expression over feature attributes. Expressions are
// immutable.
type Expr interface {
	fmt.Stringer
	expr()
}

type constant bool

func (constant) expr() {}

func (c constant) String() string {
	if c {
		return "INCLUDE"
	}
	return "EXCLUDE"
}

var (
	// Include is the expression which is always true.
	Include Expr = constant(true)
	// Exclude is the expression which is always false.
	Exclude Expr = constant(false)
)

// Value is a literal operand of a comparison, either a number or a text.
type Value struct {
	Text    string
	Number  float64
	Numeric bool
}

// Number makes numeric literal.
func Number(v float64) Value {
	return Value{Number: v, Numeric: true}
}

// Text makes text literal.
func Text(s string) Value {
	return Value{Text: s}
}

// String renders literal, texts are single quoted with embedded quotes doubled.
func (v Value) String() string {
	if v.Numeric {
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	}
	return "'" + strings.ReplaceAll(v.Text, "'", "''") + "'"
}

// Compare tests a single attribute against a literal.
type Compare struct {
	Attr  string
	Op    Op
	Value Value
}

func (Compare) expr() {}

func (c Compare) String() string {
	return c.Attr + " " + c.Op.Symbol() + " " + c.Value.String()
}

// And is a conjunction of two or more expressions. Use Conjoin to build it.
type And struct {
	terms []Expr
}

func (*And) expr() {}

// Terms returns copy of conjunction members.
func (a *And) Terms() []Expr {
	return slices.Clone(a.terms)
}

func (a *And) String() string {
	return join(a.terms, " AND ")
}

// Or is a disjunction of two or more expressions. Use Disjoin to build it.
type Or struct {
	terms []Expr
}

func (*Or) expr() {}

// Terms returns copy of disjunction members.
func (o *Or) Terms() []Expr {
	return slices.Clone(o.terms)
}

func (o *Or) String() string {
	return join(o.terms, " OR ")
}

func join(terms []Expr, sep string) string {
	var sb strings.Builder
	for i, t := range terms {
		if i > 0 {
			sb.WriteString(sep)
		}
		switch t.(type) {
		case *And, *Or:
			sb.WriteString("(" + t.String() + ")")
		default:
			sb.WriteString(t.String())
		}
	}
	return sb.String()
}

// Count returns number of attribute comparisons in the expression.
func Count(e Expr) int {
	switch e := e.(type) {
	case Compare:
		return 1
	case *And:
		n := 0
		for _, t := range e.terms {
			n += Count(t)
		}
		return n
	case *Or:
		n := 0
		for _, t := range e.terms {
			n += Count(t)
		}
		return n
	}
	return 0
}

// Schema lists attributes known to exist on features of some type. Passed
// as scope to Conjoin it turns comparisons on unknown attributes into
// Exclude: a missing attribute never compares true.
type Schema struct {
	Name  string
	attrs map[string]struct{}
}

// NewSchema creates schema for the named feature type.
func NewSchema(name string, attrs ...string) *Schema {
	s := &Schema{Name: name, attrs: make(map[string]struct{}, len(attrs))}
	for _, a := range attrs {
		s.attrs[a] = struct{}{}
	}
	return s
}

// Has reports if attribute is defined by the schema.
func (s *Schema) Has(attr string) bool {
	_, ok := s.attrs[attr]
	return ok
}

func isNaN(v Value) bool {
	return v.Numeric && math.IsNaN(v.Number)
}
