package selector

import (
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// ID matches features whose identifier belongs to the set.
type ID struct {
	ids []string
}

// NewID creates id test. Identifiers are deduplicated and kept in natural
// order so equal sets always render the same way.
func NewID(ids ...string) ID {
	ids = slices.Clone(ids)
	slices.SortFunc(ids, naturalCompare)
	return ID{ids: slices.Compact(ids)}
}

// IDs returns copy of identifiers in natural order.
func (i ID) IDs() []string { return slices.Clone(i.ids) }

// Has reports if identifier belongs to the set.
func (i ID) Has(id string) bool {
	_, found := slices.BinarySearchFunc(i.ids, id, naturalCompare)
	return found
}

func (ID) Kind() Kind { return KindId }

func (ID) Specificity() Specificity { return specificityID }

func (i ID) Accept(v Visitor) { v.VisitID(i) }

func (i ID) String() string {
	if len(i.ids) == 0 {
		return "#"
	}
	return "#" + strings.Join(i.ids, ",#")
}

// naturalCompare orders "road.2" before "road.10". Strings natural order
// considers equal fall back to byte order so sorting stays deterministic.
func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return strings.Compare(a, b)
}

// a feature has one id, so only the common ones survive
func andIDs(members []Selector, _ any) Selector {
	common := members[0].(ID).ids
	for _, m := range members[1:] {
		other := m.(ID)
		common = slices.DeleteFunc(slices.Clone(common), func(id string) bool {
			return !other.Has(id)
		})
	}
	if len(common) == 0 {
		return Never
	}
	return ID{ids: common}
}

func orIDs(members []Selector, _ any) Selector {
	var all []string
	for _, m := range members {
		all = append(all, m.(ID).ids...)
	}
	return NewID(all...)
}
