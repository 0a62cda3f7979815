package parser

import (
	"skiplint/internal/engine/pyast"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor lowers a tree-sitter-python tree into pyast.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*pyast.Module, error) {
	ctx := &ExtractionContext{Source: source, Path: filePath}
	mod := &pyast.Module{Path: filePath}
	if root == nil {
		return mod, nil
	}
	mod.Body = e.lowerBlock(ctx, root)
	return mod, nil
}

// lowerBlock lowers the statements directly inside a module or block node.
func (e *PythonExtractor) lowerBlock(ctx *ExtractionContext, node *sitter.Node) []pyast.Stmt {
	children := namedChildren(node)
	out := make([]pyast.Stmt, 0, len(children))
	for _, child := range children {
		out = append(out, e.lowerStmt(ctx, child)...)
	}
	return out
}

func (e *PythonExtractor) lowerStmt(ctx *ExtractionContext, node *sitter.Node) []pyast.Stmt {
	switch node.Kind() {
	case "class_definition":
		return []pyast.Stmt{e.lowerClass(ctx, node)}
	case "function_definition":
		return []pyast.Stmt{&pyast.FunctionDef{
			At:   ctx.Position(node),
			Name: ctx.Text(node.ChildByFieldName("name")),
			Body: e.lowerBlock(ctx, node.ChildByFieldName("body")),
		}}
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil {
			return e.lowerStmt(ctx, def)
		}
	case "expression_statement":
		return e.lowerExpressionStatement(ctx, node)
	case "if_statement", "for_statement", "while_statement", "try_statement",
		"with_statement", "match_statement":
		return []pyast.Stmt{&pyast.Compound{
			At:   ctx.Position(node),
			Kind: node.Kind(),
			Body: e.lowerNestedBlocks(ctx, node),
		}}
	}
	return []pyast.Stmt{&pyast.OtherStmt{At: ctx.Position(node), Kind: node.Kind()}}
}

// lowerNestedBlocks collects every block reachable from a compound
// statement (bodies, elif/else/except/finally/case clauses) in source order.
// Expressions never contain blocks, so descending through all children is safe.
func (e *PythonExtractor) lowerNestedBlocks(ctx *ExtractionContext, node *sitter.Node) []pyast.Stmt {
	var out []pyast.Stmt
	for _, child := range namedChildren(node) {
		if child.Kind() == "block" {
			out = append(out, e.lowerBlock(ctx, child)...)
			continue
		}
		out = append(out, e.lowerNestedBlocks(ctx, child)...)
	}
	return out
}

func (e *PythonExtractor) lowerClass(ctx *ExtractionContext, node *sitter.Node) *pyast.ClassDef {
	class := &pyast.ClassDef{
		At:   ctx.Position(node),
		Name: ctx.Text(node.ChildByFieldName("name")),
	}
	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		class.Bases, class.Keywords = e.lowerArguments(ctx, supers)
	}
	class.Body = e.lowerBlock(ctx, node.ChildByFieldName("body"))
	return class
}

func (e *PythonExtractor) lowerExpressionStatement(ctx *ExtractionContext, node *sitter.Node) []pyast.Stmt {
	children := namedChildren(node)
	if len(children) == 1 && children[0].Kind() == "assignment" {
		assign := children[0]
		if typ := assign.ChildByFieldName("type"); typ != nil {
			decl := &pyast.AnnAssign{
				At:         ctx.Position(assign),
				Target:     e.lowerExpr(ctx, assign.ChildByFieldName("left")),
				Annotation: e.lowerExpr(ctx, typ),
			}
			if right := assign.ChildByFieldName("right"); right != nil {
				decl.Value = e.lowerExpr(ctx, right)
			}
			return []pyast.Stmt{decl}
		}
	}
	return []pyast.Stmt{&pyast.OtherStmt{At: ctx.Position(node), Kind: node.Kind()}}
}

func (e *PythonExtractor) lowerExpr(ctx *ExtractionContext, node *sitter.Node) pyast.Expr {
	if node == nil {
		return &pyast.Other{Kind: "missing"}
	}
	at := ctx.Position(node)
	switch node.Kind() {
	case "identifier":
		return &pyast.Name{At: at, ID: ctx.Text(node)}
	case "type", "parenthesized_expression":
		// Both wrap exactly one expression; Python positions the inner node.
		inner := namedChildren(node)
		if len(inner) == 1 {
			return e.lowerExpr(ctx, inner[0])
		}
	case "subscript":
		// value is always the first named child; the rest are parameters.
		children := namedChildren(node)
		if len(children) >= 1 {
			return &pyast.Subscript{
				At:    at,
				Value: e.lowerExpr(ctx, children[0]),
				Index: e.lowerIndex(ctx, children[1:], countTokens(node, ",") > 0),
			}
		}
	case "generic_type":
		// Annotation-only form of X[...] produced by newer grammars.
		children := namedChildren(node)
		if len(children) == 2 && children[1].Kind() == "type_parameter" {
			return &pyast.Subscript{
				At:    at,
				Value: e.lowerExpr(ctx, children[0]),
				Index: e.lowerIndex(ctx, namedChildren(children[1]), countTokens(children[1], ",") > 0),
			}
		}
	case "call":
		call := &pyast.Call{At: at, Func: e.lowerExpr(ctx, node.ChildByFieldName("function"))}
		if args := node.ChildByFieldName("arguments"); args != nil {
			if args.Kind() == "generator_expression" {
				call.Args = []pyast.Expr{&pyast.Other{At: ctx.Position(args), Kind: args.Kind()}}
			} else {
				call.Args, call.Keywords = e.lowerArguments(ctx, args)
			}
		}
		return call
	case "tuple":
		children := namedChildren(node)
		tuple := &pyast.Tuple{At: at, Elts: make([]pyast.Expr, 0, len(children))}
		for _, child := range children {
			tuple.Elts = append(tuple.Elts, e.lowerExpr(ctx, child))
		}
		return tuple
	case "none":
		return &pyast.Constant{At: at, Kind: pyast.ConstNone, Text: "None"}
	case "true", "false":
		return &pyast.Constant{At: at, Kind: pyast.ConstBool, Text: ctx.Text(node)}
	case "integer", "float":
		return &pyast.Constant{At: at, Kind: pyast.ConstNumber, Text: ctx.Text(node)}
	case "string", "concatenated_string":
		return &pyast.Constant{At: at, Kind: pyast.ConstString, Text: ctx.Text(node)}
	case "ellipsis":
		return &pyast.Constant{At: at, Kind: pyast.ConstEllipsis, Text: "..."}
	}
	return &pyast.Other{At: at, Kind: node.Kind()}
}

// lowerIndex builds the parameter of a subscript. Several parameters, or a
// single one followed by a comma, form a tuple positioned at the first.
func (e *PythonExtractor) lowerIndex(ctx *ExtractionContext, params []*sitter.Node, hasComma bool) pyast.Expr {
	if len(params) == 1 && !hasComma {
		return e.lowerExpr(ctx, params[0])
	}
	tuple := &pyast.Tuple{Elts: make([]pyast.Expr, 0, len(params))}
	for _, p := range params {
		tuple.Elts = append(tuple.Elts, e.lowerExpr(ctx, p))
	}
	if len(params) > 0 {
		tuple.At = tuple.Elts[0].Pos()
	}
	return tuple
}

// lowerArguments splits an argument_list into positional arguments and
// keywords, preserving source order within each.
func (e *PythonExtractor) lowerArguments(ctx *ExtractionContext, node *sitter.Node) ([]pyast.Expr, []pyast.Keyword) {
	var args []pyast.Expr
	var keywords []pyast.Keyword
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "keyword_argument":
			keywords = append(keywords, pyast.Keyword{
				Name:  ctx.Text(child.ChildByFieldName("name")),
				Value: e.lowerExpr(ctx, child.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			keywords = append(keywords, pyast.Keyword{Value: e.splatValue(ctx, child)})
		default:
			args = append(args, e.lowerExpr(ctx, child))
		}
	}
	return args, keywords
}

func (e *PythonExtractor) splatValue(ctx *ExtractionContext, node *sitter.Node) pyast.Expr {
	inner := namedChildren(node)
	if len(inner) == 1 {
		return e.lowerExpr(ctx, inner[0])
	}
	return &pyast.Other{At: ctx.Position(node), Kind: node.Kind()}
}
