package rules

import "skiplint/internal/engine/pyast"

// shape is the grammar-level class of an annotation expression.
type shape int

const (
	shapeInvalid shape = iota
	shapeName
	shapeSubscript
	shapeTuple
	shapeEmptyTuple
	shapeWrapperCall
)

func (rs RuleSet) classify(e pyast.Expr) shape {
	switch n := e.(type) {
	case *pyast.Name:
		return shapeName
	case *pyast.Subscript:
		return shapeSubscript
	case *pyast.Tuple:
		if len(n.Elts) == 0 {
			return shapeEmptyTuple
		}
		return shapeTuple
	case *pyast.Call:
		if _, ok := rs.wrapperCall(n); ok {
			return shapeWrapperCall
		}
	}
	return shapeInvalid
}

func (rs RuleSet) isWrapperName(e pyast.Expr) bool {
	name, ok := pyast.NameOf(e)
	return ok && name == rs.WrapperFunc
}

// wrapperCall returns the annotation as a wrapper invocation, if it is one.
func (rs RuleSet) wrapperCall(e pyast.Expr) (*pyast.Call, bool) {
	call, name, ok := pyast.CalleeName(e)
	if !ok || name != rs.WrapperFunc {
		return nil, false
	}
	return call, true
}

// firstArg returns the first positional argument of a call. Keyword
// arguments never count.
func firstArg(call *pyast.Call) (pyast.Expr, bool) {
	if len(call.Args) == 0 {
		return nil, false
	}
	return call.Args[0], true
}
