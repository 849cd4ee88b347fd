package selector

import (
	"geocss/utils/debug"
)

// Dump renders selector tree one node per line, children indented under
// composites. Every line carries node specificity.
func Dump(s Selector) string {
	d := &dumper{tw: debug.NewTreeWriter()}
	s.Accept(d)
	return d.tw.String()
}

type dumper struct {
	tw *debug.TreeWriter
}

func (d *dumper) VisitAlways() { d.tw.Line("always") }
func (d *dumper) VisitNever()  { d.tw.Line("never") }

func (d *dumper) VisitTypeName(t TypeName) {
	d.tw.Line("type %s (specificity %s)", t, t.Specificity())
}

func (d *dumper) VisitScaleRange(r ScaleRange) {
	d.tw.Line("scale [%s, %s) (specificity %s)", formatScale(r.Min), formatScale(r.Max), r.Specificity())
}

func (d *dumper) VisitID(i ID) {
	d.tw.Line("id %s (specificity %s)", i, i.Specificity())
}

func (d *dumper) VisitData(dt Data) {
	d.tw.Line("data (specificity %s)", dt.Specificity())
	d.tw.Enter()
	d.tw.Value("expr", dt.expr.String())
	d.tw.Leave()
}

func (d *dumper) VisitPseudoClass(p PseudoClass) {
	d.tw.Line("pseudo %s (specificity %s)", p, p.Specificity())
}

func (d *dumper) VisitAnd(a *And) { d.composite("and", a, a.children) }
func (d *dumper) VisitOr(o *Or)   { d.composite("or", o, o.children) }

func (d *dumper) composite(name string, s Selector, children []Selector) {
	d.tw.Line("%s (specificity %s)", name, s.Specificity())
	d.tw.Enter()
	for _, c := range children {
		c.Accept(d)
	}
	d.tw.Leave()
}
