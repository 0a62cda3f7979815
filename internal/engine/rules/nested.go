package rules

import (
	"fmt"

	"skiplint/internal/engine/pyast"
)

// noNestedWrapping flags wrapper calls below the top level of an annotation,
// e.g. Optional[Skip(Optional[str])].
type noNestedWrapping struct {
	rs RuleSet
}

func (r noNestedWrapping) check(s *sink, f field) {
	r.inspect(s, f, f.decl.Annotation, true)
}

func (r noNestedWrapping) inspect(s *sink, f field, e pyast.Expr, firstDepth bool) {
	switch r.rs.classify(e) {
	case shapeName:
		return
	case shapeSubscript:
		r.inspect(s, f, e.(*pyast.Subscript).Index, false)
	case shapeTuple:
		for _, elt := range e.(*pyast.Tuple).Elts {
			r.inspect(s, f, elt, false)
		}
	case shapeWrapperCall:
		call := e.(*pyast.Call)
		if !firstDepth {
			r.rs.report(s, f, numNestedWrap, call.Pos(), fmt.Sprintf("%s must not type wrapped", r.rs.WrapperFunc))
		}
		if arg, ok := firstArg(call); ok {
			r.inspect(s, f, arg, false)
		}
	}
}
