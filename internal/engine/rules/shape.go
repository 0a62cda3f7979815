package rules

import (
	"fmt"

	"skiplint/internal/engine/pyast"
)

// validArgumentShape flags wrapper invocations whose argument is not a
// well-formed type expression.
type validArgumentShape struct {
	rs RuleSet
}

func (r validArgumentShape) message() string {
	return fmt.Sprintf("Invalid type argument in %s definition", r.rs.WrapperFunc)
}

func (r validArgumentShape) check(s *sink, f field) {
	ann := f.decl.Annotation
	if call, ok := r.rs.wrapperCall(ann); ok {
		arg, ok := firstArg(call)
		if !ok {
			// Skip() and Skip(t=...)
			r.rs.report(s, f, numInvalidType, call.Pos(), r.message())
			return
		}
		r.inspect(s, f, arg)
		return
	}
	// the wrapper referenced without a call: a: Skip
	if r.rs.isWrapperName(ann) {
		r.rs.report(s, f, numInvalidType, ann.Pos(), r.message())
	}
}

func (r validArgumentShape) inspect(s *sink, f field, e pyast.Expr) {
	switch r.rs.classify(e) {
	case shapeName:
		// Any identifier is accepted except the wrapper itself.
		if r.rs.isWrapperName(e) {
			r.rs.report(s, f, numInvalidType, e.Pos(), r.message())
		}
	case shapeSubscript:
		r.inspect(s, f, e.(*pyast.Subscript).Index)
	case shapeTuple:
		for _, elt := range e.(*pyast.Tuple).Elts {
			r.inspect(s, f, elt)
		}
	default:
		r.rs.report(s, f, numInvalidType, e.Pos(), r.message())
	}
}
