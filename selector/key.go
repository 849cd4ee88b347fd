package selector

import (
	"slices"
	"strconv"
	"strings"
)

// keyWriter encodes selector tree into unambiguous text, every node starts
// with its kind so keys of different kinds never collide and sort by kind.
type keyWriter struct {
	sb strings.Builder
}

func (w *keyWriter) kind(k Kind) {
	w.sb.WriteByte('0' + byte(k))
}

func (w *keyWriter) VisitAlways() { w.kind(KindAlways) }
func (w *keyWriter) VisitNever()  { w.kind(KindNever) }

func (w *keyWriter) VisitTypeName(t TypeName) {
	w.kind(KindTypeName)
	w.sb.WriteString(strconv.Quote(t.String()))
}

func (w *keyWriter) VisitScaleRange(r ScaleRange) {
	w.kind(KindScaleRange)
	w.sb.WriteString("[" + formatScale(r.Min) + "," + formatScale(r.Max) + ")")
}

func (w *keyWriter) VisitID(i ID) {
	w.kind(KindId)
	for _, id := range i.ids {
		w.sb.WriteString(strconv.Quote(id))
	}
}

func (w *keyWriter) VisitData(d Data) {
	w.kind(KindData)
	w.sb.WriteString(strconv.Quote(d.expr.String()))
}

func (w *keyWriter) VisitPseudoClass(p PseudoClass) {
	w.kind(KindPseudoClass)
	w.sb.WriteString(strconv.Quote(p.Class) + strconv.Itoa(p.Nth))
}

func (w *keyWriter) VisitAnd(a *And) { w.composite(KindAnd, a.children) }
func (w *keyWriter) VisitOr(o *Or)   { w.composite(KindOr, o.children) }

func (w *keyWriter) composite(k Kind, children []Selector) {
	w.kind(k)
	w.sb.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			w.sb.WriteByte(',')
		}
		c.Accept(w)
	}
	w.sb.WriteByte(')')
}

func key(s Selector) string {
	var w keyWriter
	s.Accept(&w)
	return w.sb.String()
}

// Equal reports if two selector trees are structurally identical. Children
// order matters.
func Equal(a, b Selector) bool {
	return key(a) == key(b)
}

// canonicalOr builds disjunction out of branches: duplicates are removed
// and the rest is ordered by key so that the result does not depend on the
// order branches were produced in.
func canonicalOr(branches []Selector) Selector {
	type keyed struct {
		key string
		sel Selector
	}
	all := make([]keyed, 0, len(branches))
	for _, b := range branches {
		all = append(all, keyed{key(b), b})
	}
	slices.SortStableFunc(all, func(a, b keyed) int { return strings.Compare(a.key, b.key) })
	all = slices.CompactFunc(all, func(a, b keyed) bool { return a.key == b.key })

	switch len(all) {
	case 0:
		return Never
	case 1:
		return all[0].sel
	}
	out := make([]Selector, 0, len(all))
	for _, k := range all {
		out = append(out, k.sel)
	}
	return &Or{children: out}
}
