package parser

import (
	"skiplint/internal/engine/pyast"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ExtractionContext carries the source and helpers shared while lowering
// one tree.
type ExtractionContext struct {
	Source []byte
	Path   string
}

func (c *ExtractionContext) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

// Position converts a node start to a 1-based line and 0-based byte column.
func (c *ExtractionContext) Position(node *sitter.Node) pyast.Position {
	if node == nil {
		return pyast.Position{}
	}
	start := node.StartPosition()
	return pyast.Position{
		Line:   int(start.Row) + 1,
		Column: int(start.Column),
	}
}

// namedChildren returns the named children of node, dropping comments and
// other extras that tree-sitter attaches anywhere in the tree.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.IsExtra() || child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// countTokens counts anonymous children of the given kind, e.g. "," between
// subscript parameters.
func countTokens(node *sitter.Node, kind string) int {
	n := 0
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == kind {
			n++
		}
	}
	return n
}

// firstSyntaxError finds the first ERROR or MISSING node in source order.
func firstSyntaxError(node *sitter.Node) *sitter.Node {
	if node == nil || !node.HasError() {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstSyntaxError(node.Child(i)); found != nil {
			return found
		}
	}
	return node
}
