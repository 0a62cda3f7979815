package rules

import (
	"testing"

	"skiplint/internal/engine/pyast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func name(line, col int, id string) *pyast.Name {
	return &pyast.Name{At: pyast.Position{Line: line, Column: col}, ID: id}
}

func call(line, col int, fn string, args ...pyast.Expr) *pyast.Call {
	return &pyast.Call{At: pyast.Position{Line: line, Column: col}, Func: name(line, col, fn), Args: args}
}

func subscript(line, col int, base string, index pyast.Expr) *pyast.Subscript {
	return &pyast.Subscript{At: pyast.Position{Line: line, Column: col}, Value: name(line, col, base), Index: index}
}

func decl(line int, target pyast.Expr, ann pyast.Expr) *pyast.AnnAssign {
	return &pyast.AnnAssign{At: pyast.Position{Line: line, Column: 4}, Target: target, Annotation: ann}
}

func model(base string, body ...pyast.Stmt) *pyast.Module {
	return &pyast.Module{Body: []pyast.Stmt{&pyast.ClassDef{
		At:    pyast.Position{Line: 1},
		Name:  "M",
		Bases: []pyast.Expr{name(1, 8, base)},
		Body:  body,
	}}}
}

func skp(t *testing.T) RuleSet {
	t.Helper()
	rs, err := Profile("skp")
	require.NoError(t, err)
	return rs
}

func collect(p *Plugin) []Diagnostic {
	var out []Diagnostic
	for d := range p.Run() {
		out = append(out, d)
	}
	return out
}

func TestPlugin_RunIsSinglePass(t *testing.T) {
	mod := model("SkippableBaseModel", decl(2, name(2, 4, "a"), call(2, 7, "Skip")))
	p := NewPlugin(mod, skp(t))

	seq := p.Run()
	var first []Diagnostic
	for d := range seq {
		first = append(first, d)
	}
	require.Len(t, first, 2)

	var second []Diagnostic
	for d := range seq {
		second = append(second, d)
	}
	assert.Empty(t, second, "a consumed sequence yields nothing")

	assert.Equal(t, first, collect(p), "a fresh Run starts a new pass")
}

func TestPlugin_RunStopsOnBreak(t *testing.T) {
	mod := model("SkippableBaseModel",
		decl(2, name(2, 4, "a"), call(2, 7, "Skip")),
		decl(3, name(3, 4, "b"), call(3, 7, "Skip")),
	)
	n := 0
	for range NewPlugin(mod, skp(t)).Run() {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestPlugin_MetadataAndDefaults(t *testing.T) {
	p := NewPlugin(&pyast.Module{}, RuleSet{BaseClass: "B", WrapperFunc: "W", CodePrefix: "XYZ"})
	assert.NotEmpty(t, p.Name())
	assert.NotEmpty(t, p.Version())
	assert.Equal(t, "xyz", p.RuleSet().Name)
	assert.Equal(t, DefaultOptionalMarker, p.RuleSet().OptionalMarker)
	assert.Equal(t, DefaultUnionMarker, p.RuleSet().UnionMarker)
	assert.Empty(t, collect(p))
}

func TestPlugin_NilTree(t *testing.T) {
	assert.Empty(t, collect(NewPlugin(nil, skp(t))))
	assert.Empty(t, Check(nil, skp(t)).Diagnostics)
}

func TestCheck_Idempotent(t *testing.T) {
	mod := model("SkippableBaseModel",
		decl(2, name(2, 4, "a"), subscript(2, 7, "Optional", call(2, 16, "Skip", subscript(2, 21, "Optional", name(2, 30, "str"))))),
		decl(3, name(3, 4, "b"), call(3, 7, "Skip", &pyast.Tuple{At: pyast.Position{Line: 3, Column: 12}})),
	)
	first := Check(mod, skp(t))
	second := Check(mod, skp(t))
	assert.Equal(t, first, second)
	require.Len(t, first.Diagnostics, 3)

	codes := make([]string, 0, len(first.Diagnostics))
	for _, d := range first.Diagnostics {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{"SKP100", "SKP101", "SKP102"}, codes)
}

func TestCheck_SkipsNonNameTargets(t *testing.T) {
	attr := &pyast.Other{At: pyast.Position{Line: 2, Column: 4}, Kind: "attribute"}
	mod := model("SkippableBaseModel",
		decl(2, attr, call(2, 12, "Skip")),
		decl(3, name(3, 4, "ok"), call(3, 8, "Skip", subscript(3, 13, "Optional", name(3, 22, "int")))),
	)
	res := Check(mod, skp(t))
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, 1, res.SkippedTargets)
}

func TestCheck_NonDerivedClassIsIgnored(t *testing.T) {
	mod := model("BaseModel",
		decl(2, name(2, 4, "a"), call(2, 7, "Skip")),
		decl(3, name(3, 4, "b"), subscript(3, 7, "List", call(3, 12, "Skip"))),
	)
	res := Check(mod, skp(t))
	assert.Empty(t, res.Diagnostics)
	assert.Zero(t, res.SkippedTargets)
}

func TestCheck_UnknownExpressionIsInvalid(t *testing.T) {
	lambda := &pyast.Other{At: pyast.Position{Line: 2, Column: 12}, Kind: "lambda"}
	mod := model("SkippableBaseModel", decl(2, name(2, 4, "a"), call(2, 7, "Skip", lambda)))

	got := Check(mod, skp(t)).Diagnostics
	require.Len(t, got, 2)
	assert.Equal(t, "2:12: SKP101 a in M: Invalid type argument in Skip definition", got[0].String())
	assert.Equal(t, "2:7: SKP102 a in M: Skip expects Optional type as argument", got[1].String())
}

func TestCheck_DiagnosticFields(t *testing.T) {
	mod := model("SkippableBaseModel", decl(5, name(5, 4, "count"), call(5, 11, "Skip", name(5, 16, "int"))))

	got := Check(mod, skp(t)).Diagnostics
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, "SKP102", d.Code)
	assert.Equal(t, "count", d.Field)
	assert.Equal(t, "M", d.Class)
	assert.Equal(t, 5, d.Line())
	assert.Equal(t, 11, d.Column())
	assert.Equal(t, "SKP102 count in M: Skip expects Optional type as argument", d.Message)
}

func TestOptionalRequired_Accepts(t *testing.T) {
	r := optionalRequired{rs: skp(t)}
	none := &pyast.Constant{Kind: pyast.ConstNone, Text: "None"}
	tuple := func(elts ...pyast.Expr) *pyast.Tuple { return &pyast.Tuple{Elts: elts} }

	cases := []struct {
		name string
		arg  pyast.Expr
		want bool
	}{
		{"optional", subscript(1, 0, "Optional", name(1, 0, "str")), true},
		{"optional of anything", subscript(1, 0, "Optional", &pyast.Other{Kind: "list"}), true},
		{"union with none", subscript(1, 0, "Union", tuple(name(1, 0, "str"), none)), true},
		{"union with junk and none", subscript(1, 0, "Union", tuple(&pyast.Other{Kind: "list"}, none)), true},
		{"union without none", subscript(1, 0, "Union", tuple(name(1, 0, "str"), name(1, 0, "int"))), false},
		{"union of single none", subscript(1, 0, "Union", none), false},
		{"bare optional", name(1, 0, "Optional"), false},
		{"list", subscript(1, 0, "List", name(1, 0, "str")), false},
		{"tuple", tuple(none), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.accepts(tc.arg))
		})
	}
}

func TestRuleSet_WrapperCall(t *testing.T) {
	rs := skp(t)
	attrCall := &pyast.Call{Func: &pyast.Other{Kind: "attribute"}}

	got, ok := rs.wrapperCall(call(1, 0, "Skip", name(1, 5, "int")))
	require.True(t, ok)
	assert.Len(t, got.Args, 1)

	for _, e := range []pyast.Expr{call(1, 0, "Maybe"), attrCall, name(1, 0, "Skip")} {
		_, ok := rs.wrapperCall(e)
		assert.False(t, ok, "%T should not be a wrapper call", e)
	}

	assert.Equal(t, shapeWrapperCall, rs.classify(call(1, 0, "Skip")))
	assert.Equal(t, shapeInvalid, rs.classify(attrCall))
	assert.Equal(t, shapeInvalid, rs.classify(call(1, 0, "Optional")))
}
