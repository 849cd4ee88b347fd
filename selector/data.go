package selector

import (
	"geocss/filter"
)

// Data matches features whose attributes satisfy an expression.
type Data struct {
	expr filter.Expr
}

// NewData creates attribute test.
func NewData(expr filter.Expr) Data {
	return Data{expr: expr}
}

// Expr returns attribute expression.
func (d Data) Expr() filter.Expr { return d.expr }

func (Data) Kind() Kind { return KindData }

func (d Data) Specificity() Specificity {
	return Specificity{0, filter.Count(d.expr), 0}
}

func (d Data) Accept(v Visitor) { v.VisitData(d) }

func (d Data) String() string { return "[" + d.expr.String() + "]" }

// andData conjoins the expressions, scope is handed to filter.Conjoin as is
// (a *filter.Schema there lets unknown attributes fail early).
func andData(members []Selector, scope any) Selector {
	exprs := make([]filter.Expr, 0, len(members))
	for _, m := range members {
		exprs = append(exprs, m.(Data).expr)
	}
	return fromExpr(filter.Conjoin(scope, exprs...))
}

// reduceData maps constant expressions to Always and Never. With a
// *filter.Schema scope the expression is also checked against the schema
// and simplified.
func reduceData(members []Selector, scope any) Selector {
	d := members[0].(Data)
	_, schema := scope.(*filter.Schema)
	if !schema && d.expr != filter.Include && d.expr != filter.Exclude {
		return d
	}
	return fromExpr(filter.Conjoin(scope, d.expr))
}

// DataTest creates attribute test for expr reduced within scope, see
// Combiner for the meaning of scope.
func DataTest(expr filter.Expr, scope any) Selector {
	return reduceData([]Selector{NewData(expr)}, scope)
}

func orData(members []Selector, _ any) Selector {
	exprs := make([]filter.Expr, 0, len(members))
	for _, m := range members {
		exprs = append(exprs, m.(Data).expr)
	}
	return fromExpr(filter.Disjoin(exprs...))
}

func fromExpr(e filter.Expr) Selector {
	switch e {
	case filter.Include:
		return Always
	case filter.Exclude:
		return Never
	}
	return NewData(e)
}
