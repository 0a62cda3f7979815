package rules

import "skiplint/internal/engine/pyast"

type checker interface {
	check(s *sink, f field)
}

// visitor walks a module and runs the rule chain on the annotated members
// of every class derived from the configured base.
type visitor struct {
	rs    RuleSet
	chain []checker
	sink  *sink
	// skipped counts annotated members whose target is not a simple name.
	skipped int
}

func newVisitor(rs RuleSet) *visitor {
	return &visitor{
		rs: rs,
		chain: []checker{
			noNestedWrapping{rs: rs},
			validArgumentShape{rs: rs},
			optionalRequired{rs: rs},
		},
		sink: &sink{},
	}
}

func (v *visitor) visit(mod *pyast.Module) {
	if mod == nil {
		return
	}
	v.walk(mod.Body)
}

func (v *visitor) walk(body []pyast.Stmt) {
	pyast.Walk(body, func(stmt pyast.Stmt) bool {
		class, ok := stmt.(*pyast.ClassDef)
		if !ok {
			return true
		}
		v.visitClass(class)
		return false
	})
}

// visitClass checks the direct members of class in source order and keeps
// walking nested statements so inner classes are still found.
func (v *visitor) visitClass(class *pyast.ClassDef) {
	qualifies := class.BaseNames()[v.rs.BaseClass]
	for _, member := range class.Body {
		decl, ok := member.(*pyast.AnnAssign)
		if !ok {
			v.walk([]pyast.Stmt{member})
			continue
		}
		if !qualifies {
			continue
		}
		name, ok := decl.TargetName()
		if !ok {
			v.skipped++
			continue
		}
		f := field{name: name, class: class.Name, decl: decl}
		for _, rule := range v.chain {
			rule.check(v.sink, f)
		}
	}
}
