package selector

// ScaleRanges returns disjoint sorted scale ranges in which selector may
// match. Selectors which do not test scale match in the full range, Never
// has no ranges at all. Renderers use it to skip rules outside of the
// current scale without evaluating features.
func ScaleRanges(s Selector) []ScaleRange {
	v := &scaleCollector{}
	s.Accept(v)
	return v.ranges
}

type scaleCollector struct {
	ranges []ScaleRange
}

func (v *scaleCollector) full() { v.ranges = []ScaleRange{FullScaleRange} }

func (v *scaleCollector) VisitAlways()                 { v.full() }
func (v *scaleCollector) VisitNever()                  { v.ranges = nil }
func (v *scaleCollector) VisitTypeName(TypeName)       { v.full() }
func (v *scaleCollector) VisitID(ID)                   { v.full() }
func (v *scaleCollector) VisitData(Data)               { v.full() }
func (v *scaleCollector) VisitPseudoClass(PseudoClass) { v.full() }

func (v *scaleCollector) VisitScaleRange(r ScaleRange) {
	v.ranges = coalesce([]ScaleRange{r})
}

// VisitAnd intersects ranges of all children.
func (v *scaleCollector) VisitAnd(a *And) {
	acc := []ScaleRange{FullScaleRange}
	for _, c := range a.children {
		acc = intersectAll(acc, ScaleRanges(c))
		if len(acc) == 0 {
			break
		}
	}
	v.ranges = acc
}

// VisitOr joins ranges of all children.
func (v *scaleCollector) VisitOr(o *Or) {
	var acc []ScaleRange
	for _, c := range o.children {
		acc = append(acc, ScaleRanges(c)...)
	}
	v.ranges = coalesce(acc)
}

func intersectAll(a, b []ScaleRange) []ScaleRange {
	var out []ScaleRange
	for _, x := range a {
		for _, y := range b {
			out = append(out, x.Intersect(y))
		}
	}
	return coalesce(out)
}
