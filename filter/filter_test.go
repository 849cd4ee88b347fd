package filter_test

import (
	"errors"
	"testing"

	"geocss/filter"
)

func cmp(attr string, op filter.Op, v filter.Value) filter.Compare {
	return filter.Compare{Attr: attr, Op: op, Value: v}
}

func TestConjoin_Constants(t *testing.T) {
	a := cmp("pop", filter.OpGt, filter.Number(10))

	if got := filter.Conjoin(nil); got != filter.Include {
		t.Errorf("empty conjunction = %v, want INCLUDE", got)
	}
	if got := filter.Conjoin(nil, filter.Include, a); got.String() != a.String() {
		t.Errorf("Include AND a = %v, want %v", got, a)
	}
	if got := filter.Conjoin(nil, a, filter.Exclude); got != filter.Exclude {
		t.Errorf("a AND Exclude = %v, want EXCLUDE", got)
	}
}

func TestConjoin_NumericReduction(t *testing.T) {
	tests := []struct {
		name  string
		terms []filter.Expr
		want  string
	}{
		{
			name:  "tighter lower bound wins",
			terms: []filter.Expr{cmp("pop", filter.OpGt, filter.Number(10)), cmp("pop", filter.OpGe, filter.Number(20))},
			want:  "pop >= 20",
		},
		{
			name:  "open range",
			terms: []filter.Expr{cmp("pop", filter.OpLt, filter.Number(100)), cmp("pop", filter.OpGe, filter.Number(20))},
			want:  "pop < 100 AND pop >= 20",
		},
		{
			name:  "closed point becomes equality",
			terms: []filter.Expr{cmp("pop", filter.OpLe, filter.Number(5)), cmp("pop", filter.OpGe, filter.Number(5))},
			want:  "pop = 5",
		},
		{
			name:  "equality inside range",
			terms: []filter.Expr{cmp("pop", filter.OpEq, filter.Number(7)), cmp("pop", filter.OpLt, filter.Number(10))},
			want:  "pop = 7",
		},
		{
			name:  "inequality outside range dropped",
			terms: []filter.Expr{cmp("pop", filter.OpNe, filter.Number(3)), cmp("pop", filter.OpGt, filter.Number(10))},
			want:  "pop > 10",
		},
		{
			name:  "different attributes kept",
			terms: []filter.Expr{cmp("b", filter.OpEq, filter.Number(1)), cmp("a", filter.OpEq, filter.Number(2))},
			want:  "a = 2 AND b = 1",
		},
		{
			name:  "duplicates removed",
			terms: []filter.Expr{cmp("a", filter.OpNe, filter.Number(2)), cmp("a", filter.OpNe, filter.Number(2))},
			want:  "a <> 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Conjoin(nil, tt.terms...)
			if got.String() != tt.want {
				t.Errorf("Conjoin() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConjoin_Contradictions(t *testing.T) {
	tests := []struct {
		name  string
		terms []filter.Expr
	}{
		{"two equalities", []filter.Expr{cmp("a", filter.OpEq, filter.Number(1)), cmp("a", filter.OpEq, filter.Number(2))}},
		{"empty range", []filter.Expr{cmp("a", filter.OpGt, filter.Number(10)), cmp("a", filter.OpLt, filter.Number(5))}},
		{"half open point", []filter.Expr{cmp("a", filter.OpGe, filter.Number(5)), cmp("a", filter.OpLt, filter.Number(5))}},
		{"equality outside range", []filter.Expr{cmp("a", filter.OpEq, filter.Number(1)), cmp("a", filter.OpGt, filter.Number(5))}},
		{"equal and not equal", []filter.Expr{cmp("a", filter.OpEq, filter.Number(1)), cmp("a", filter.OpNe, filter.Number(1))}},
		{"text equalities", []filter.Expr{cmp("k", filter.OpEq, filter.Text("x")), cmp("k", filter.OpEq, filter.Text("y"))}},
		{"text equal and not equal", []filter.Expr{cmp("k", filter.OpEq, filter.Text("x")), cmp("k", filter.OpNe, filter.Text("x"))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Conjoin(nil, tt.terms...); got != filter.Exclude {
				t.Errorf("Conjoin() = %q, want EXCLUDE", got)
			}
		})
	}
}

func TestConjoin_Associative(t *testing.T) {
	a := cmp("a", filter.OpGt, filter.Number(1))
	b := cmp("b", filter.OpEq, filter.Text("x"))
	c := cmp("a", filter.OpLt, filter.Number(9))

	left := filter.Conjoin(nil, filter.Conjoin(nil, a, b), c)
	right := filter.Conjoin(nil, a, filter.Conjoin(nil, b, c))
	if left.String() != right.String() {
		t.Errorf("(a AND b) AND c = %q, a AND (b AND c) = %q", left, right)
	}
}

func TestConjoin_Schema(t *testing.T) {
	schema := filter.NewSchema("places", "pop", "name")

	if got := filter.Conjoin(schema, cmp("pop", filter.OpGt, filter.Number(1)), cmp("name", filter.OpEq, filter.Text("x"))); got == filter.Exclude {
		t.Errorf("known attributes should not be excluded, got %v", got)
	}
	if got := filter.Conjoin(schema, cmp("pop", filter.OpGt, filter.Number(1)), cmp("area", filter.OpGt, filter.Number(1))); got != filter.Exclude {
		t.Errorf("unknown attribute should exclude, got %v", got)
	}
	// scope of unrelated type is ignored
	if got := filter.Conjoin("whatever", cmp("area", filter.OpGt, filter.Number(1))); got == filter.Exclude {
		t.Error("non schema scope must not exclude")
	}
}

func TestDisjoin(t *testing.T) {
	a := cmp("a", filter.OpEq, filter.Number(1))
	b := cmp("b", filter.OpEq, filter.Number(2))

	if got := filter.Disjoin(); got != filter.Exclude {
		t.Errorf("empty disjunction = %v, want EXCLUDE", got)
	}
	if got := filter.Disjoin(a, filter.Include); got != filter.Include {
		t.Errorf("a OR Include = %v, want INCLUDE", got)
	}
	if got := filter.Disjoin(filter.Exclude, a); got.String() != a.String() {
		t.Errorf("Exclude OR a = %v, want %v", got, a)
	}
	got := filter.Disjoin(b, filter.Disjoin(a, b))
	if got.String() != "a = 1 OR b = 2" {
		t.Errorf("Disjoin() = %q", got)
	}
	if n := filter.Count(got); n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestNestedRendering(t *testing.T) {
	or := filter.Disjoin(cmp("a", filter.OpEq, filter.Number(1)), cmp("b", filter.OpEq, filter.Number(2)))
	and := filter.Conjoin(nil, or, cmp("c", filter.OpGt, filter.Number(0)))
	if and.String() != "(a = 1 OR b = 2) AND c > 0" {
		t.Errorf("String() = %q", and)
	}
	if n := filter.Count(and); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pop > 10", "pop > 10"},
		{"pop>=10", "pop >= 10"},
		{"kind <> 'village'", "kind <> 'village'"},
		{"kind != \"town\"", "kind <> 'town'"},
		{"kind = city", "kind = 'city'"},
		{"pop > 10 and pop < 100", "pop < 100 AND pop > 10"},
		{"pop > 10 AND name = \"O'Hara\"", "name = 'O''Hara' AND pop > 10"},
		{"elev <= -5", "elev <= -5"},
		{"a == 1", "a = 1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := filter.Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "> 5", "pop 5", "pop > ", "pop > 5 or a = 1", "pop < = 5", "pop ~ 5"} {
		t.Run(in, func(t *testing.T) {
			if _, err := filter.Parse(in); !errors.Is(err, filter.ErrSyntax) {
				t.Errorf("Parse(%q) error = %v, want ErrSyntax", in, err)
			}
		})
	}
}

func TestParseComparison(t *testing.T) {
	c, err := filter.ParseComparison("  road-class = 'primary' ")
	if err != nil {
		t.Fatalf("ParseComparison() error = %v", err)
	}
	if c.Attr != "road-class" || c.Op != filter.OpEq || c.Value.Text != "primary" || c.Value.Numeric {
		t.Errorf("ParseComparison() = %+v", c)
	}
	if _, err := filter.ParseComparison("a = 1 and b = 2"); !errors.Is(err, filter.ErrSyntax) {
		t.Errorf("expected ErrSyntax for trailing tokens, got %v", err)
	}
}
