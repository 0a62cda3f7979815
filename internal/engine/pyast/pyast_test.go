package pyast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func n(id string) *Name { return &Name{ID: id} }

func TestFormat(t *testing.T) {
	none := &Constant{Kind: ConstNone, Text: "None"}
	cases := []struct {
		expr Expr
		want string
	}{
		{nil, "<nil>"},
		{n("str"), "str"},
		{&Subscript{Value: n("Optional"), Index: n("str")}, "Optional[str]"},
		{&Subscript{Value: n("Union"), Index: &Tuple{Elts: []Expr{n("str"), none}}}, "Union[str, None]"},
		{&Tuple{}, "()"},
		{&Tuple{Elts: []Expr{n("a")}}, "(a,)"},
		{&Call{Func: n("Skip"), Args: []Expr{n("int")}, Keywords: []Keyword{{Name: "x", Value: n("y")}, {Value: n("kw")}}}, "Skip(int, x=y, **kw)"},
		{&Call{Func: n("Skip"), Keywords: []Keyword{{Name: "t", Value: n("int")}}}, "Skip(t=int)"},
		{&Other{Kind: "lambda"}, "<lambda>"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.expr))
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNone(&Constant{Kind: ConstNone}))
	assert.False(t, IsNone(&Constant{Kind: ConstString, Text: "'None'"}))
	assert.False(t, IsNone(n("None")))

	id, ok := NameOf(n("x"))
	assert.True(t, ok)
	assert.Equal(t, "x", id)
	_, ok = NameOf(&Other{})
	assert.False(t, ok)

	call, callee, ok := CalleeName(&Call{Func: n("Skip")})
	assert.True(t, ok)
	assert.Equal(t, "Skip", callee)
	assert.NotNil(t, call)

	call, _, ok = CalleeName(&Call{Func: &Other{Kind: "attribute"}})
	assert.False(t, ok)
	assert.NotNil(t, call)

	_, _, ok = CalleeName(n("Skip"))
	assert.False(t, ok)

	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}

func TestClassDef_BaseNames(t *testing.T) {
	c := &ClassDef{
		Bases:    []Expr{n("A"), &Other{Kind: "attribute"}, &Subscript{Value: n("Generic"), Index: n("T")}, n("B")},
		Keywords: []Keyword{{Name: "metaclass", Value: n("Meta")}},
	}
	assert.Equal(t, map[string]bool{"A": true, "B": true}, c.BaseNames())
}

func TestAnnAssign_TargetName(t *testing.T) {
	name, ok := (&AnnAssign{Target: n("field")}).TargetName()
	assert.True(t, ok)
	assert.Equal(t, "field", name)

	_, ok = (&AnnAssign{Target: &Other{Kind: "attribute"}}).TargetName()
	assert.False(t, ok)
}

func TestWalk(t *testing.T) {
	inner := &ClassDef{Name: "Inner", Body: []Stmt{&OtherStmt{Kind: "pass"}}}
	fn := &FunctionDef{Name: "f", Body: []Stmt{inner}}
	body := []Stmt{
		&Compound{Kind: "if_statement", Body: []Stmt{fn}},
		&ClassDef{Name: "Pruned", Body: []Stmt{&ClassDef{Name: "Hidden"}}},
	}

	var seen []string
	Walk(body, func(s Stmt) bool {
		switch s := s.(type) {
		case *ClassDef:
			seen = append(seen, "class "+s.Name)
			return s.Name != "Pruned"
		case *FunctionDef:
			seen = append(seen, "def "+s.Name)
		case *Compound:
			seen = append(seen, s.Kind)
		case *OtherStmt:
			seen = append(seen, s.Kind)
		}
		return true
	})
	assert.Equal(t, []string{"if_statement", "def f", "class Inner", "pass", "class Pruned"}, seen)
}
