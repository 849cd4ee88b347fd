// Package selector implements selectors deciding which map features a
// styling rule applies to, and the algebra used to combine them.
//
// Selectors are immutable. Combining two selectors never modifies either
// operand, it builds a new tree which may share operand sub-trees, so the
// same selector can be used from many goroutines and in many combinations.
package selector

import (
	"fmt"
	"slices"
	"strings"
)

// Kind of selector, used to decide how same-kind selectors merge.
// ENUM(always, never, type-name, scale-range, id, data, pseudo-class, and, or)
type Kind int

// mergeOrder is the priority in which same-kind leaves are merged under AND
// and the order of children in a canonical And.
var mergeOrder = []Kind{KindTypeName, KindScaleRange, KindId, KindData, KindPseudoClass}

const kindCount = int(KindOr) + 1

// Selector is a predicate over map features.
type Selector interface {
	fmt.Stringer
	Kind() Kind
	Specificity() Specificity
	Accept(v Visitor)
}

type always struct{}

func (always) Kind() Kind               { return KindAlways }
func (always) Specificity() Specificity { return specificityNone }
func (always) Accept(v Visitor)         { v.VisitAlways() }
func (always) String() string           { return "always" }

type never struct{}

func (never) Kind() Kind               { return KindNever }
func (never) Specificity() Specificity { return specificityNone }
func (never) Accept(v Visitor)         { v.VisitNever() }
func (never) String() string           { return "never" }

var (
	// Always matches every feature. It is the identity of AND and absorbs OR.
	Always Selector = always{}
	// Never matches nothing. It absorbs AND and is the identity of OR.
	Never Selector = never{}
)

// And matches features matched by all of its children.
type And struct {
	children []Selector
}

// NewAnd wraps children as is, without any normalization. Use Combiner to
// get canonical conjunctions.
func NewAnd(children ...Selector) *And {
	if len(children) < 2 {
		panic(fmt.Sprintf("And requires at least 2 selectors, got %d", len(children)))
	}
	return &And{children: slices.Clone(children)}
}

func (a *And) Kind() Kind { return KindAnd }

// Children returns copy of conjunction members in stable order.
func (a *And) Children() []Selector { return slices.Clone(a.children) }

func (a *And) Specificity() Specificity {
	var s Specificity
	for _, c := range a.children {
		s = s.Add(c.Specificity())
	}
	return s
}

func (a *And) Accept(v Visitor) { v.VisitAnd(a) }

func (a *And) String() string {
	return joinChildren(a.children, " ", KindOr)
}

// Or matches features matched by any of its children.
type Or struct {
	children []Selector
}

// NewOr wraps children as is, without any normalization. Use Combiner to
// get canonical disjunctions.
func NewOr(children ...Selector) *Or {
	if len(children) < 2 {
		panic(fmt.Sprintf("Or requires at least 2 selectors, got %d", len(children)))
	}
	return &Or{children: slices.Clone(children)}
}

func (o *Or) Kind() Kind { return KindOr }

// Children returns copy of disjunction members in stable order.
func (o *Or) Children() []Selector { return slices.Clone(o.children) }

// Specificity of a disjunction is the one of its most specific member.
func (o *Or) Specificity() Specificity {
	var out Specificity
	for _, c := range o.children {
		if s := c.Specificity(); out.Less(s) {
			out = s
		}
	}
	return out
}

func (o *Or) Accept(v Visitor) { v.VisitOr(o) }

func (o *Or) String() string {
	return joinChildren(o.children, ", ", KindAnd)
}

// joinChildren renders composite members, members of kind wrap are put in
// parentheses.
func joinChildren(children []Selector, sep string, wrap Kind) string {
	var sb strings.Builder
	for i, c := range children {
		if i > 0 {
			sb.WriteString(sep)
		}
		if c.Kind() == wrap {
			sb.WriteString("(" + c.String() + ")")
			continue
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
