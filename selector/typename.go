package selector

import "slices"

// AnyType is the type name matching features of every type.
const AnyType = "*"

// TypeName matches features of a single feature type.
type TypeName struct {
	Name string
}

// NewTypeName creates type test, empty name is the same as AnyType.
func NewTypeName(name string) TypeName {
	if name == "" {
		name = AnyType
	}
	return TypeName{Name: name}
}

// IsAny reports if selector matches features of every type.
func (t TypeName) IsAny() bool { return t.Name == AnyType || t.Name == "" }

func (TypeName) Kind() Kind { return KindTypeName }

func (t TypeName) Specificity() Specificity {
	if t.IsAny() {
		return specificityNone
	}
	return specificityElement
}

func (t TypeName) Accept(v Visitor) { v.VisitTypeName(t) }

func (t TypeName) String() string {
	if t.IsAny() {
		return AnyType
	}
	return t.Name
}

// feature has exactly one type, so different names never match together
func andTypeNames(members []Selector, _ any) Selector {
	var name string
	for _, m := range members {
		t := m.(TypeName)
		if t.IsAny() {
			continue
		}
		if name == "" {
			name = t.Name
			continue
		}
		if name != t.Name {
			return Never
		}
	}
	if name == "" {
		return NewTypeName(AnyType)
	}
	return NewTypeName(name)
}

func orTypeNames(members []Selector, _ any) Selector {
	names := make([]string, 0, len(members))
	for _, m := range members {
		t := m.(TypeName)
		if t.IsAny() {
			return Always
		}
		names = append(names, t.Name)
	}
	slices.SortFunc(names, naturalCompare)
	names = slices.Compact(names)
	if len(names) == 1 {
		return NewTypeName(names[0])
	}
	out := make([]Selector, 0, len(names))
	for _, n := range names {
		out = append(out, NewTypeName(n))
	}
	return &Or{children: out}
}
