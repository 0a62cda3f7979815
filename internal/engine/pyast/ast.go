// Package pyast is a small, parser-independent model of the parts of a Python
// module that the skip rules inspect. It is populated once from the concrete
// syntax tree and never mutated afterwards.
package pyast

import "fmt"

// Position is a source location. Line is 1-based, Column is a 0-based byte
// offset into the line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Expr is one of *Name, *Subscript, *Tuple, *Call, *Constant or *Other.
type Expr interface {
	Pos() Position
	exprNode()
}

type Name struct {
	At Position
	ID string
}

// Subscript is a parametrized type such as List[str]. Comma separated
// parameters are held as a single *Tuple index.
type Subscript struct {
	At    Position
	Value Expr
	Index Expr
}

type Tuple struct {
	At   Position
	Elts []Expr
}

type Keyword struct {
	Name  string // empty for **kwargs
	Value Expr
}

type Call struct {
	At       Position
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

type ConstKind int

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstNumber
	ConstString
	ConstEllipsis
)

type Constant struct {
	At   Position
	Kind ConstKind
	Text string
}

// Other is any expression outside the type grammar. Kind carries the
// parser's node kind for diagnostics and debugging.
type Other struct {
	At   Position
	Kind string
}

func (e *Name) Pos() Position      { return e.At }
func (e *Subscript) Pos() Position { return e.At }
func (e *Tuple) Pos() Position     { return e.At }
func (e *Call) Pos() Position      { return e.At }
func (e *Constant) Pos() Position  { return e.At }
func (e *Other) Pos() Position     { return e.At }

func (*Name) exprNode()      {}
func (*Subscript) exprNode() {}
func (*Tuple) exprNode()     {}
func (*Call) exprNode()      {}
func (*Constant) exprNode()  {}
func (*Other) exprNode()     {}

// IsNone reports whether e is the literal None.
func IsNone(e Expr) bool {
	c, ok := e.(*Constant)
	return ok && c.Kind == ConstNone
}

// NameOf returns the identifier of a bare name expression.
func NameOf(e Expr) (string, bool) {
	n, ok := e.(*Name)
	if !ok {
		return "", false
	}
	return n.ID, true
}

// CalleeName returns the callee identifier when e is a call to a bare name.
func CalleeName(e Expr) (*Call, string, bool) {
	call, ok := e.(*Call)
	if !ok {
		return nil, "", false
	}
	name, ok := NameOf(call.Func)
	if !ok {
		return call, "", false
	}
	return call, name, true
}
