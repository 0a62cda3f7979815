package rules

import (
	"fmt"

	"skiplint/internal/engine/pyast"
)

// optionalRequired flags wrapper invocations whose argument is not
// Optional[...] or a Union[...] that lists None.
type optionalRequired struct {
	rs RuleSet
}

func (r optionalRequired) check(s *sink, f field) {
	call, ok := r.rs.wrapperCall(f.decl.Annotation)
	if !ok {
		return
	}
	if arg, ok := firstArg(call); ok && r.accepts(arg) {
		return
	}
	r.rs.report(s, f, numMissingOpt, call.Pos(), fmt.Sprintf("%s expects %s type as argument", r.rs.WrapperFunc, r.rs.OptionalMarker))
}

// accepts inspects only the immediate argument shape. Union members other
// than None are not validated.
func (r optionalRequired) accepts(arg pyast.Expr) bool {
	sub, ok := arg.(*pyast.Subscript)
	if !ok {
		return false
	}
	base, ok := pyast.NameOf(sub.Value)
	if !ok {
		return false
	}
	switch base {
	case r.rs.OptionalMarker:
		return true
	case r.rs.UnionMarker:
		members, ok := sub.Index.(*pyast.Tuple)
		if !ok {
			return false
		}
		for _, elt := range members.Elts {
			if pyast.IsNone(elt) {
				return true
			}
		}
	}
	return false
}
