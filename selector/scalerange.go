package selector

import (
	"cmp"
	"math"
	"slices"
	"strconv"
)

// ScaleRange matches when the map scale denominator falls in [Min, Max).
type ScaleRange struct {
	Min float64
	Max float64
}

// FullScaleRange spans every possible scale.
var FullScaleRange = ScaleRange{Min: 0, Max: math.Inf(1)}

// NewScaleRange creates scale range test. Negative or NaN minimum means
// unbounded below, NaN maximum means unbounded above.
func NewScaleRange(lo, hi float64) ScaleRange {
	if math.IsNaN(lo) || lo < 0 {
		lo = 0
	}
	if math.IsNaN(hi) {
		hi = math.Inf(1)
	}
	return ScaleRange{Min: lo, Max: hi}
}

// IsEmpty reports if no scale can satisfy the range.
func (r ScaleRange) IsEmpty() bool { return r.Min >= r.Max }

// IsFull reports if the range does not restrict scale at all.
func (r ScaleRange) IsFull() bool { return r.Min <= 0 && math.IsInf(r.Max, 1) }

// Intersect returns the scales common to both ranges, result may be empty.
func (r ScaleRange) Intersect(other ScaleRange) ScaleRange {
	return ScaleRange{Min: max(r.Min, other.Min), Max: min(r.Max, other.Max)}
}

// Contains reports if scale belongs to the range.
func (r ScaleRange) Contains(scale float64) bool {
	return scale >= r.Min && scale < r.Max
}

func (ScaleRange) Kind() Kind { return KindScaleRange }

func (ScaleRange) Specificity() Specificity { return specificityAttribute }

func (r ScaleRange) Accept(v Visitor) { v.VisitScaleRange(r) }

func (r ScaleRange) String() string {
	lo, hi := r.Min > 0, !math.IsInf(r.Max, 1)
	switch {
	case lo && hi:
		return "[@scale >= " + formatScale(r.Min) + "][@scale < " + formatScale(r.Max) + "]"
	case hi:
		return "[@scale < " + formatScale(r.Max) + "]"
	}
	return "[@scale >= " + formatScale(r.Min) + "]"
}

func formatScale(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func andScaleRanges(members []Selector, _ any) Selector {
	r := FullScaleRange
	for _, m := range members {
		r = r.Intersect(m.(ScaleRange))
	}
	if r.IsEmpty() {
		return Never
	}
	return r
}

func reduceScaleRange(members []Selector, _ any) Selector {
	if r := members[0].(ScaleRange); !r.IsEmpty() {
		return r
	}
	return Never
}

// ScaleTest creates scale range test like NewScaleRange, a range no scale
// could satisfy is Never.
func ScaleTest(lo, hi float64) Selector {
	return reduceScaleRange([]Selector{NewScaleRange(lo, hi)}, nil)
}

func orScaleRanges(members []Selector, _ any) Selector {
	ranges := make([]ScaleRange, 0, len(members))
	for _, m := range members {
		ranges = append(ranges, m.(ScaleRange))
	}
	ranges = coalesce(ranges)
	switch {
	case len(ranges) == 0:
		return Never
	case len(ranges) == 1 && ranges[0].IsFull():
		return Always
	case len(ranges) == 1:
		return ranges[0]
	}
	out := make([]Selector, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, r)
	}
	return &Or{children: out}
}

// coalesce sorts ranges and merges the overlapping or touching ones, empty
// ranges are dropped.
func coalesce(ranges []ScaleRange) []ScaleRange {
	ranges = slices.DeleteFunc(slices.Clone(ranges), ScaleRange.IsEmpty)
	slices.SortFunc(ranges, func(a, b ScaleRange) int {
		if c := cmp.Compare(a.Min, b.Min); c != 0 {
			return c
		}
		return cmp.Compare(a.Max, b.Max)
	})

	var out []ScaleRange
	for _, r := range ranges {
		if n := len(out); n > 0 && r.Min <= out[n-1].Max {
			out[n-1].Max = max(out[n-1].Max, r.Max)
			continue
		}
		out = append(out, r)
	}
	return out
}
