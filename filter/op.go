package filter

import "fmt"

// Comparison operator of a single attribute test.
// ENUM(eq, ne, lt, le, gt, ge)
type Op int

var opSymbols = map[Op]string{
	OpEq: "=",
	OpNe: "<>",
	OpLt: "<",
	OpLe: "<=",
	OpGt: ">",
	OpGe: ">=",
}

// Symbol returns operator as it is written in expressions.
func (x Op) Symbol() string {
	if s, ok := opSymbols[x]; ok {
		return s
	}
	// this should never happen
	panic(fmt.Sprintf("unsupported comparison operator %d", int(x)))
}

// ParseSymbol converts written operator to Op. Both "<>" and "!=" denote
// inequality, "==" is accepted as equality.
func ParseSymbol(sym string) (Op, error) {
	switch sym {
	case "=", "==":
		return OpEq, nil
	case "<>", "!=":
		return OpNe, nil
	case "<":
		return OpLt, nil
	case "<=":
		return OpLe, nil
	case ">":
		return OpGt, nil
	case ">=":
		return OpGe, nil
	}
	return Op(0), fmt.Errorf("%w: unknown operator %q", ErrSyntax, sym)
}
