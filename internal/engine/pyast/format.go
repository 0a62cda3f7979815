package pyast

import "strings"

// Format renders an expression back to a compact Python-like form. It is
// used in debug output and tests, not for round-tripping source.
func Format(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Name:
		b.WriteString(n.ID)
	case *Subscript:
		writeExpr(b, n.Value)
		b.WriteByte('[')
		if t, ok := n.Index.(*Tuple); ok && len(t.Elts) > 0 {
			writeList(b, t.Elts)
		} else {
			writeExpr(b, n.Index)
		}
		b.WriteByte(']')
	case *Tuple:
		b.WriteByte('(')
		writeList(b, n.Elts)
		if len(n.Elts) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case *Call:
		writeExpr(b, n.Func)
		b.WriteByte('(')
		writeList(b, n.Args)
		for i, kw := range n.Keywords {
			if i > 0 || len(n.Args) > 0 {
				b.WriteString(", ")
			}
			if kw.Name == "" {
				b.WriteString("**")
			} else {
				b.WriteString(kw.Name)
				b.WriteByte('=')
			}
			writeExpr(b, kw.Value)
		}
		b.WriteByte(')')
	case *Constant:
		b.WriteString(n.Text)
	case *Other:
		b.WriteString("<" + n.Kind + ">")
	}
}

func writeList(b *strings.Builder, elts []Expr) {
	for i, elt := range elts {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, elt)
	}
}
