package selector

// Visitor is implemented by subsystems traversing or evaluating selector
// trees. Composite nodes do not descend on their own: VisitAnd and VisitOr
// decide if and in which order children are visited.
type Visitor interface {
	VisitAlways()
	VisitNever()
	VisitTypeName(TypeName)
	VisitScaleRange(ScaleRange)
	VisitID(ID)
	VisitData(Data)
	VisitPseudoClass(PseudoClass)
	VisitAnd(*And)
	VisitOr(*Or)
}
