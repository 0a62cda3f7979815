package rules

import (
	"iter"

	"skiplint/internal/engine/pyast"
	"skiplint/internal/shared/version"
)

// Plugin is the host-facing facade: construct it from a parsed module and
// call Run to obtain the findings.
type Plugin struct {
	tree *pyast.Module
	rs   RuleSet
}

func NewPlugin(tree *pyast.Module, rs RuleSet) *Plugin {
	return &Plugin{tree: tree, rs: rs.WithDefaults()}
}

func (p *Plugin) Name() string    { return version.Name }
func (p *Plugin) Version() string { return version.Version }

// RuleSet identifies which rule set produced the diagnostics.
func (p *Plugin) RuleSet() RuleSet { return p.rs }

// Run walks the tree when iteration starts and yields diagnostics in
// discovery order. The returned sequence is single-pass; call Run again for
// a fresh pass.
func (p *Plugin) Run() iter.Seq[Diagnostic] {
	consumed := false
	return func(yield func(Diagnostic) bool) {
		if consumed {
			return
		}
		consumed = true
		v := newVisitor(p.rs)
		v.visit(p.tree)
		for _, d := range v.sink.items {
			if !yield(d) {
				return
			}
		}
	}
}

// Result is the outcome of one eager analysis run.
type Result struct {
	Diagnostics []Diagnostic
	// SkippedTargets counts annotated members ignored because their target
	// was not a simple name.
	SkippedTargets int
}

// Check runs one analysis pass and collects everything at once.
func Check(tree *pyast.Module, rs RuleSet) Result {
	v := newVisitor(rs.WithDefaults())
	v.visit(tree)
	return Result{Diagnostics: v.sink.items, SkippedTargets: v.skipped}
}
