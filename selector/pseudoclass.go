package selector

import (
	"strconv"

	"golang.org/x/text/cases"
)

// Pseudo-classes addressing parts of a symbolizer. SymbolClass matches
// every one of them.
const (
	MarkClass   = "mark"
	StrokeClass = "stroke"
	FillClass   = "fill"
	ShieldClass = "shield"
	SymbolClass = "symbol"
)

// PseudoClass selects part of a symbolizer (mark, stroke, fill...). Nth is
// 1-based position of the part, 0 matches any position.
type PseudoClass struct {
	Class string
	Nth   int
}

// NewPseudoClass creates pseudo-class test, class name is case folded and
// negative positions are treated as any position.
func NewPseudoClass(class string, nth int) PseudoClass {
	if class == "" {
		class = SymbolClass
	}
	// Caser keeps state, it cannot be shared between goroutines
	return PseudoClass{Class: cases.Fold().String(class), Nth: max(nth, 0)}
}

func (PseudoClass) Kind() Kind { return KindPseudoClass }

func (PseudoClass) Specificity() Specificity { return specificityAttribute }

func (p PseudoClass) Accept(v Visitor) { v.VisitPseudoClass(p) }

func (p PseudoClass) String() string {
	if p.Nth > 0 {
		return ":nth-" + p.Class + "(" + strconv.Itoa(p.Nth) + ")"
	}
	return ":" + p.Class
}

func (p PseudoClass) isWildcard() bool { return p.Class == SymbolClass && p.Nth == 0 }

// both tests must hold for the same symbolizer part, wildcards yield to
// concrete values
func andPseudoClasses(members []Selector, _ any) Selector {
	out := members[0].(PseudoClass)
	for _, m := range members[1:] {
		p := m.(PseudoClass)
		switch {
		case out.Class == SymbolClass:
			out.Class = p.Class
		case p.Class != SymbolClass && p.Class != out.Class:
			return Never
		}
		switch {
		case out.Nth == 0:
			out.Nth = p.Nth
		case p.Nth != 0 && p.Nth != out.Nth:
			return Never
		}
	}
	return out
}

func orPseudoClasses(members []Selector, _ any) Selector {
	seen := make(map[PseudoClass]struct{}, len(members))
	var out []Selector
	for _, m := range members {
		p := m.(PseudoClass)
		if p.isWildcard() {
			return p
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 1 {
		return out[0]
	}
	return &Or{children: out}
}
