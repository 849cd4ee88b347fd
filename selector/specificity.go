package selector

import (
	"cmp"
	"fmt"
)

// Specificity ranks selectors the way CSS does, with the convention
// Specificity = [A,B,C] where A counts id tests, B counts attribute-like
// tests (data, scale ranges, pseudo-classes) and C counts type names.
// Comparison is lexicographic, so the order is total.
type Specificity [3]int

var (
	specificityNone      = Specificity{}
	specificityID        = Specificity{1, 0, 0}
	specificityAttribute = Specificity{0, 1, 0}
	specificityElement   = Specificity{0, 0, 1}
)

// Compare returns -1, 0 or +1 depending on whether s is less specific, as
// specific, or more specific than other.
func (s Specificity) Compare(other Specificity) int {
	for i := range s {
		if c := cmp.Compare(s[i], other[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Less returns true if s < other (strictly).
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

// Add sums specificities component-wise.
func (s Specificity) Add(other Specificity) Specificity {
	for i, sp := range other {
		s[i] += sp
	}
	return s
}

func (s Specificity) String() string {
	return fmt.Sprintf("%d,%d,%d", s[0], s[1], s[2])
}

// Compare orders selectors by specificity, it can be used with
// slices.SortFunc to rank competing rules.
func Compare(a, b Selector) int {
	return a.Specificity().Compare(b.Specificity())
}
