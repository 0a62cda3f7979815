package rules

import (
	"fmt"

	"skiplint/internal/engine/pyast"
)

// Diagnostic is one finding. Message already carries the code prefix, e.g.
// "SKP100 a in M: Skip must not type wrapped".
type Diagnostic struct {
	Pos     pyast.Position
	Code    string
	Field   string
	Class   string
	Message string
}

// Line and Column follow the flake8 convention (1-based line, 0-based column).
func (d Diagnostic) Line() int   { return d.Pos.Line }
func (d Diagnostic) Column() int { return d.Pos.Column }

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Pos.Line, d.Pos.Column, d.Message)
}

// sink accumulates the diagnostics of a single analysis run.
type sink struct {
	items []Diagnostic
}

func (s *sink) add(d Diagnostic) {
	s.items = append(s.items, d)
}

// field is the context a rule reports against: the declaration being
// checked and its enclosing class.
type field struct {
	name  string
	class string
	decl  *pyast.AnnAssign
}

func (rs RuleSet) report(s *sink, f field, number int, at pyast.Position, description string) {
	code := rs.Code(number)
	s.add(Diagnostic{
		Pos:     at,
		Code:    code,
		Field:   f.name,
		Class:   f.class,
		Message: fmt.Sprintf("%s %s in %s: %s", code, f.name, f.class, description),
	})
}
