package pyast

// Stmt is one of *ClassDef, *AnnAssign, *FunctionDef, *Compound or *OtherStmt.
type Stmt interface {
	Pos() Position
	stmtNode()
}

type ClassDef struct {
	At       Position
	Name     string
	Bases    []Expr
	Keywords []Keyword
	Body     []Stmt
}

// AnnAssign is an annotated declaration, with or without a value.
type AnnAssign struct {
	At         Position
	Target     Expr
	Annotation Expr
	Value      Expr
}

type FunctionDef struct {
	At   Position
	Name string
	Body []Stmt
}

// Compound is any block statement (if, for, while, with, try, match,
// decorated definitions) flattened to the statements it contains.
type Compound struct {
	At   Position
	Kind string
	Body []Stmt
}

type OtherStmt struct {
	At   Position
	Kind string
}

func (s *ClassDef) Pos() Position    { return s.At }
func (s *AnnAssign) Pos() Position   { return s.At }
func (s *FunctionDef) Pos() Position { return s.At }
func (s *Compound) Pos() Position    { return s.At }
func (s *OtherStmt) Pos() Position   { return s.At }

func (*ClassDef) stmtNode()    {}
func (*AnnAssign) stmtNode()   {}
func (*FunctionDef) stmtNode() {}
func (*Compound) stmtNode()    {}
func (*OtherStmt) stmtNode()   {}

// Module is one parsed source unit.
type Module struct {
	Path string
	Body []Stmt
}

// BaseNames returns the bare-name bases of a class. Attribute bases such as
// pydantic.BaseModel and keyword arguments are not included.
func (c *ClassDef) BaseNames() map[string]bool {
	out := make(map[string]bool, len(c.Bases))
	for _, base := range c.Bases {
		if name, ok := NameOf(base); ok {
			out[name] = true
		}
	}
	return out
}

// TargetName returns the declared field name when the target is a simple name.
func (s *AnnAssign) TargetName() (string, bool) {
	return NameOf(s.Target)
}

// Walk calls fn for every statement in depth-first source order. Returning
// false from fn skips the statement's children.
func Walk(body []Stmt, fn func(Stmt) bool) {
	for _, stmt := range body {
		if !fn(stmt) {
			continue
		}
		switch s := stmt.(type) {
		case *ClassDef:
			Walk(s.Body, fn)
		case *FunctionDef:
			Walk(s.Body, fn)
		case *Compound:
			Walk(s.Body, fn)
		}
	}
}
