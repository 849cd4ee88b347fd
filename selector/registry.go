package selector

import "fmt"

// MergeFunc reduces two or more selectors of the same kind into an
// equivalent selector. It must return Never, Always, a single selector, or
// a conjunction (for AND) / disjunction (for OR) of residual selectors.
// Scope is whatever the caller passed to the combiner.
type MergeFunc func(members []Selector, scope any) Selector

// Registry maps selector kinds to their merge operations. A zero Registry
// has no operations, use DefaultRegistry for the built-in kinds. Reduce
// operations get the only member of a kind and may turn a predicate which
// can never (or always) match into Never (Always).
type Registry struct {
	and    [kindCount]MergeFunc
	or     [kindCount]MergeFunc
	reduce [kindCount]MergeFunc
}

// DefaultRegistry returns registry with merge operations for all predicate
// kinds. Every call returns a fresh copy which could be modified safely.
func DefaultRegistry() *Registry {
	return &Registry{
		and: [kindCount]MergeFunc{
			KindTypeName:    andTypeNames,
			KindScaleRange:  andScaleRanges,
			KindId:          andIDs,
			KindData:        andData,
			KindPseudoClass: andPseudoClasses,
		},
		or: [kindCount]MergeFunc{
			KindTypeName:    orTypeNames,
			KindScaleRange:  orScaleRanges,
			KindId:          orIDs,
			KindData:        orData,
			KindPseudoClass: orPseudoClasses,
		},
		reduce: [kindCount]MergeFunc{
			KindScaleRange: reduceScaleRange,
			KindData:       reduceData,
		},
	}
}

// SetAnd registers AND merge operation for kind, nil removes it.
func (r *Registry) SetAnd(k Kind, fn MergeFunc) *Registry {
	r.and[r.index(k)] = fn
	return r
}

// SetOr registers OR merge operation for kind, nil removes it.
func (r *Registry) SetOr(k Kind, fn MergeFunc) *Registry {
	r.or[r.index(k)] = fn
	return r
}

// SetReduce registers reduce operation for kind, nil removes it.
func (r *Registry) SetReduce(k Kind, fn MergeFunc) *Registry {
	r.reduce[r.index(k)] = fn
	return r
}

func (r *Registry) index(k Kind) int {
	if !k.IsValid() {
		panic(fmt.Sprintf("unable to register merge operation for %s", k))
	}
	return int(k)
}

// mergeAnd invokes AND merge for kind. A kind which may appear more than
// once in a conjunction must have one, so missing operation or result of a
// shape the combinator cannot handle is a programming error.
func (r *Registry) mergeAnd(k Kind, members []Selector, scope any) Selector {
	fn := r.and[k]
	if fn == nil {
		panic(fmt.Sprintf("no AND merge operation registered for %s selectors (%d members)", k, len(members)))
	}
	res := fn(members, scope)
	if res == nil || res.Kind() == KindOr {
		panic(fmt.Sprintf("AND merge of %s selectors returned %v", k, res))
	}
	return res
}

// mergeOr invokes OR merge for kind. OR merging is optional, without
// operation members are kept as they are.
func (r *Registry) mergeOr(k Kind, members []Selector, scope any) Selector {
	fn := r.or[k]
	if fn == nil {
		return &Or{children: members}
	}
	res := fn(members, scope)
	if res == nil {
		panic(fmt.Sprintf("OR merge of %s selectors returned nothing", k))
	}
	return res
}

// reduceLone invokes reduce operation for the only member of kind, without
// operation member is kept as is.
func (r *Registry) reduceLone(k Kind, member Selector, scope any) Selector {
	fn := r.reduce[k]
	if fn == nil {
		return member
	}
	res := fn([]Selector{member}, scope)
	if res == nil || res.Kind() == KindOr {
		panic(fmt.Sprintf("reduce of %s selector returned %v", k, res))
	}
	return res
}
