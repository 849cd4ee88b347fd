package filter

import (
	"slices"
	"strings"
)

// Conjoin returns simplified conjunction of exprs. Nested conjunctions are
// flattened, Include is dropped and Exclude absorbs everything. Comparisons
// on the same attribute are reduced to the tightest equivalent set, and an
// unsatisfiable set yields Exclude. When scope is a *Schema comparisons on
// attributes the schema does not define are false. Result members are
// deduplicated and ordered by their text so the outcome does not depend on
// the order of exprs.
func Conjoin(scope any, exprs ...Expr) Expr {
	schema, _ := scope.(*Schema)

	var flat []Expr
	for _, e := range exprs {
		flat = appendFlat(flat, e, true)
	}

	var (
		byAttr = make(map[string][]Compare)
		attrs  []string
		rest   []Expr
	)
	for _, e := range flat {
		switch e := e.(type) {
		case constant:
			if !e {
				return Exclude
			}
		case Compare:
			if isNaN(e.Value) || (schema != nil && !schema.Has(e.Attr)) {
				return Exclude
			}
			if _, seen := byAttr[e.Attr]; !seen {
				attrs = append(attrs, e.Attr)
			}
			byAttr[e.Attr] = append(byAttr[e.Attr], e)
		default:
			rest = append(rest, e)
		}
	}

	terms := rest
	for _, attr := range attrs {
		reduced, ok := reduceAttr(attr, byAttr[attr])
		if !ok {
			return Exclude
		}
		terms = append(terms, reduced...)
	}

	terms = normalize(terms)
	switch len(terms) {
	case 0:
		return Include
	case 1:
		return terms[0]
	}
	return &And{terms: terms}
}

// Disjoin returns simplified disjunction of exprs. Nested disjunctions are
// flattened, Exclude is dropped and Include absorbs everything.
func Disjoin(exprs ...Expr) Expr {
	var flat []Expr
	for _, e := range exprs {
		flat = appendFlat(flat, e, false)
	}

	terms := make([]Expr, 0, len(flat))
	for _, e := range flat {
		if c, ok := e.(constant); ok {
			if c {
				return Include
			}
			continue
		}
		terms = append(terms, e)
	}

	terms = normalize(terms)
	switch len(terms) {
	case 0:
		return Exclude
	case 1:
		return terms[0]
	}
	return &Or{terms: terms}
}

// appendFlat appends e to dst unfolding nested conjunctions (conj) or
// disjunctions.
func appendFlat(dst []Expr, e Expr, conj bool) []Expr {
	var terms []Expr
	switch c := e.(type) {
	case *And:
		if !conj {
			return append(dst, e)
		}
		terms = c.terms
	case *Or:
		if conj {
			return append(dst, e)
		}
		terms = c.terms
	default:
		return append(dst, e)
	}
	for _, t := range terms {
		dst = appendFlat(dst, t, conj)
	}
	return dst
}

func normalize(terms []Expr) []Expr {
	slices.SortFunc(terms, func(a, b Expr) int {
		return strings.Compare(a.String(), b.String())
	})
	return slices.CompactFunc(terms, func(a, b Expr) bool {
		return a.String() == b.String()
	})
}

// reduceAttr folds comparisons on a single attribute. It returns false when
// no value can satisfy all of them.
func reduceAttr(attr string, cmps []Compare) ([]Expr, bool) {
	numeric, text := true, true
	for _, c := range cmps {
		if c.Value.Numeric {
			text = false
		} else {
			numeric = false
			if c.Op != OpEq && c.Op != OpNe {
				text = false
			}
		}
	}
	switch {
	case numeric:
		return reduceNumeric(attr, cmps)
	case text:
		return reduceText(attr, cmps)
	}
	// mixed literals, nothing to reason about
	out := make([]Expr, 0, len(cmps))
	for _, c := range cmps {
		out = append(out, c)
	}
	return out, true
}

type bound struct {
	set  bool
	v    float64
	incl bool
}

func lower(b bound, v float64, incl bool) bound {
	if !b.set || v > b.v || (v == b.v && !incl) {
		return bound{set: true, v: v, incl: incl}
	}
	return b
}

func upper(b bound, v float64, incl bool) bound {
	if !b.set || v < b.v || (v == b.v && !incl) {
		return bound{set: true, v: v, incl: incl}
	}
	return b
}

func reduceNumeric(attr string, cmps []Compare) ([]Expr, bool) {
	var (
		lo, hi bound
		eq     *float64
		ne     []float64
	)
	for _, c := range cmps {
		v := c.Value.Number
		switch c.Op {
		case OpEq:
			if eq != nil && *eq != v {
				return nil, false
			}
			eq = &v
		case OpNe:
			ne = append(ne, v)
		case OpGt:
			lo = lower(lo, v, false)
		case OpGe:
			lo = lower(lo, v, true)
		case OpLt:
			hi = upper(hi, v, false)
		case OpLe:
			hi = upper(hi, v, true)
		}
	}

	inside := func(v float64) bool {
		if lo.set && (v < lo.v || (v == lo.v && !lo.incl)) {
			return false
		}
		if hi.set && (v > hi.v || (v == hi.v && !hi.incl)) {
			return false
		}
		return true
	}

	if eq != nil {
		if !inside(*eq) || slices.Contains(ne, *eq) {
			return nil, false
		}
		return []Expr{Compare{Attr: attr, Op: OpEq, Value: Number(*eq)}}, true
	}

	if lo.set && hi.set {
		if lo.v > hi.v {
			return nil, false
		}
		if lo.v == hi.v {
			if !lo.incl || !hi.incl || slices.Contains(ne, lo.v) {
				return nil, false
			}
			return []Expr{Compare{Attr: attr, Op: OpEq, Value: Number(lo.v)}}, true
		}
	}

	var out []Expr
	if lo.set {
		op := OpGt
		if lo.incl {
			op = OpGe
		}
		out = append(out, Compare{Attr: attr, Op: op, Value: Number(lo.v)})
	}
	if hi.set {
		op := OpLt
		if hi.incl {
			op = OpLe
		}
		out = append(out, Compare{Attr: attr, Op: op, Value: Number(hi.v)})
	}
	for _, v := range ne {
		if inside(v) {
			out = append(out, Compare{Attr: attr, Op: OpNe, Value: Number(v)})
		}
	}
	return out, true
}

func reduceText(attr string, cmps []Compare) ([]Expr, bool) {
	var (
		eq *string
		ne []string
	)
	for _, c := range cmps {
		v := c.Value.Text
		if c.Op == OpNe {
			ne = append(ne, v)
			continue
		}
		if eq != nil && *eq != v {
			return nil, false
		}
		eq = &v
	}
	if eq != nil {
		if slices.Contains(ne, *eq) {
			return nil, false
		}
		return []Expr{Compare{Attr: attr, Op: OpEq, Value: Text(*eq)}}, true
	}
	out := make([]Expr, 0, len(ne))
	for _, v := range ne {
		out = append(out, Compare{Attr: attr, Op: OpNe, Value: Text(v)})
	}
	return out, true
}
