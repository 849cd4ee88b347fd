package selector

import (
	"slices"

	"go.uber.org/zap"
)

// Combiner combines selectors with AND and OR producing canonical trees:
// composites are flattened, same-kind leaves merged using Registry, And
// never wraps a single child and the top-most Or, if any, stays on top.
// Combiner is stateless and safe for concurrent use.
type Combiner struct {
	log   *zap.Logger
	reg   *Registry
	trace bool
}

// Option configures Combiner.
type Option func(*Combiner)

// WithRegistry replaces built-in merge operations.
func WithRegistry(r *Registry) Option {
	return func(c *Combiner) {
		c.reg = r
	}
}

// WithTrace enables debug diagnostic for every combination.
func WithTrace(on bool) Option {
	return func(c *Combiner) {
		c.trace = on
	}
}

// NewCombiner creates new combiner.
func NewCombiner(log *zap.Logger, opts ...Option) *Combiner {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Combiner{log: log.Named("combiner"), reg: DefaultRegistry()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var std = NewCombiner(nil)

// Conjoin combines selectors with AND using built-in merge operations.
func Conjoin(a, b Selector, scope any) Selector {
	return std.And(a, b, scope)
}

// Disjoin combines selectors with OR using built-in merge operations.
func Disjoin(a, b Selector, scope any) Selector {
	return std.Or(a, b, scope)
}

// And returns canonical selector equivalent to a AND b. Scope is passed
// untouched to merge operations.
func (c *Combiner) And(a, b Selector, scope any) Selector {
	res := c.and(a, b, scope)
	c.traceResult("Combined with AND", a, b, res)
	return res
}

// Or returns canonical selector equivalent to a OR b.
func (c *Combiner) Or(a, b Selector, scope any) Selector {
	res := c.or(a, b, scope)
	c.traceResult("Combined with OR", a, b, res)
	return res
}

// AndAll combines all selectors with AND, no selectors yields Always.
func (c *Combiner) AndAll(scope any, sels ...Selector) Selector {
	res := Always
	for _, s := range sels {
		res = c.And(res, s, scope)
	}
	return res
}

// OrAll combines all selectors with OR, no selectors yields Never.
func (c *Combiner) OrAll(scope any, sels ...Selector) Selector {
	res := Never
	for _, s := range sels {
		res = c.Or(res, s, scope)
	}
	return res
}

func (c *Combiner) traceResult(msg string, a, b, res Selector) {
	if !c.trace {
		return
	}
	if ce := c.log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(zap.Stringer("left", a), zap.Stringer("right", b), zap.Stringer("result", res))
	}
}

func (c *Combiner) and(a, b Selector, scope any) Selector {
	switch {
	case a.Kind() == KindAlways:
		return c.reduce(b, scope)
	case b.Kind() == KindAlways:
		return c.reduce(a, scope)
	case a.Kind() == KindNever || b.Kind() == KindNever:
		return Never
	}

	// fold the other operand into the or to keep it top-most
	if or, ok := a.(*Or); ok {
		return c.foldInOr(or, b, scope)
	}
	if or, ok := b.(*Or); ok {
		return c.foldInOr(or, a, scope)
	}

	flat := flatten(nil, a, KindAnd)
	flat = flatten(flat, b, KindAnd)

	g := classify(flat)
	if len(g.members(KindNever)) > 0 {
		return Never
	}
	g.remove(KindAlways)

	// an or nested in a conjunction supplied from outside
	if ors := g.members(KindOr); len(ors) > 0 {
		g.remove(KindOr)
		res := Always
		for _, s := range g.all() {
			res = c.and(res, s, scope)
		}
		for _, or := range ors {
			res = c.and(res, or, scope)
		}
		return res
	}

	for _, k := range mergeOrder {
		var merged Selector
		switch members := g.members(k); len(members) {
		case 0:
			continue
		case 1:
			merged = c.reg.reduceLone(k, members[0], scope)
		default:
			merged = c.reg.mergeAnd(k, members, scope)
		}
		switch merged.Kind() {
		case KindNever:
			return Never
		case KindAlways:
			g.remove(k)
		case KindAnd:
			g.set(k, merged.(*And).children)
		default:
			g.set(k, []Selector{merged})
		}
	}

	var out []Selector
	for _, k := range mergeOrder {
		out = append(out, g.members(k)...)
	}
	switch len(out) {
	case 0:
		return Always
	case 1:
		return out[0]
	}
	return &And{children: out}
}

// foldInOr distributes AND over or: every branch is combined with other,
// branches which become Never are dropped. A branch becoming Always makes
// the whole disjunction Always, which holds because other is combined with
// every branch the same way.
func (c *Combiner) foldInOr(or *Or, other Selector, scope any) Selector {
	branches := make([]Selector, 0, len(or.children))
	for _, child := range or.children {
		combined := c.And(child, other, scope)
		switch combined.Kind() {
		case KindAlways:
			return Always
		case KindNever:
			continue
		case KindOr:
			branches = append(branches, combined.(*Or).children...)
		default:
			branches = append(branches, combined)
		}
	}
	return canonicalOr(branches)
}

func (c *Combiner) or(a, b Selector, scope any) Selector {
	switch {
	case a.Kind() == KindNever:
		return c.reduce(b, scope)
	case b.Kind() == KindNever:
		return c.reduce(a, scope)
	case a.Kind() == KindAlways || b.Kind() == KindAlways:
		return Always
	}

	var flat []Selector
	for _, s := range flatten(flatten(nil, a, KindOr), b, KindOr) {
		// branches supplied from outside may be conjunctions of any shape
		if and, ok := s.(*And); ok {
			s = c.conjoin(and.children, scope)
		}
		flat = flatten(flat, s, KindOr)
	}

	g := classify(flat)
	if len(g.members(KindAlways)) > 0 {
		return Always
	}
	g.remove(KindNever)

	for _, k := range mergeOrder {
		var merged Selector
		switch members := g.members(k); len(members) {
		case 0:
			continue
		case 1:
			merged = c.reg.reduceLone(k, members[0], scope)
		default:
			merged = c.reg.mergeOr(k, members, scope)
		}
		switch merged.Kind() {
		case KindAlways:
			return Always
		case KindNever:
			g.remove(k)
		case KindOr:
			g.set(k, merged.(*Or).children)
		default:
			g.set(k, []Selector{merged})
		}
	}
	return canonicalOr(g.all())
}

// reduce applies reduce operation to a lone predicate so that a predicate
// nothing (everything) satisfies becomes Never (Always). Composites and
// constants are returned as they are.
func (c *Combiner) reduce(s Selector, scope any) Selector {
	switch k := s.Kind(); k {
	case KindAlways, KindNever, KindAnd, KindOr:
		return s
	default:
		return c.reg.reduceLone(k, s, scope)
	}
}

// conjoin combines members with AND without tracing.
func (c *Combiner) conjoin(members []Selector, scope any) Selector {
	res := Always
	for _, m := range members {
		res = c.and(res, m, scope)
	}
	return res
}

// flatten appends s to dst unfolding composites of kind k recursively.
func flatten(dst []Selector, s Selector, k Kind) []Selector {
	if s.Kind() != k {
		return append(dst, s)
	}
	var children []Selector
	switch cs := s.(type) {
	case *And:
		children = cs.children
	case *Or:
		children = cs.children
	default:
		return append(dst, s)
	}
	for _, child := range children {
		dst = flatten(dst, child, k)
	}
	return dst
}

// groups keeps selectors grouped by kind, both kinds and members of each
// kind in the order they were first seen.
type groups struct {
	order  []Kind
	byKind map[Kind][]Selector
}

func classify(sels []Selector) *groups {
	g := &groups{byKind: make(map[Kind][]Selector)}
	for _, s := range sels {
		k := s.Kind()
		if _, seen := g.byKind[k]; !seen {
			g.order = append(g.order, k)
		}
		g.byKind[k] = append(g.byKind[k], s)
	}
	return g
}

func (g *groups) members(k Kind) []Selector {
	return g.byKind[k]
}

func (g *groups) set(k Kind, sels []Selector) {
	if _, seen := g.byKind[k]; !seen {
		g.order = append(g.order, k)
	}
	g.byKind[k] = sels
}

func (g *groups) remove(k Kind) {
	delete(g.byKind, k)
	g.order = slices.DeleteFunc(g.order, func(x Kind) bool { return x == k })
}

// all returns members of remaining groups in first-seen order.
func (g *groups) all() []Selector {
	var out []Selector
	for _, k := range g.order {
		out = append(out, g.byKind[k]...)
	}
	return out
}
