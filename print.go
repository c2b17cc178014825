package graft

import (
	"fmt"
	"io"
	"strings"
)

// Print renders the tree as source text. The rendering is deterministic:
// two trees print equal iff they are structurally equivalent, which makes
// printed output the equivalence oracle for patch application. Thrown
// sets are rendered in sorted label order since they carry no order of
// their own.
func Print(n *Node) string {
	var b strings.Builder
	p := printer{w: &b}
	p.node(n, 0)
	return b.String()
}

// Fprint renders the tree as source text into a writer.
func Fprint(w io.Writer, n *Node) error {
	_, err := io.WriteString(w, Print(n))
	return err
}

type printer struct {
	w *strings.Builder
}

func (p *printer) print(s string) {
	p.w.WriteString(s)
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(indent int) {
	p.print("\n")
	p.print(strings.Repeat("    ", indent))
}

func (p *printer) modifiers(n *Node) {
	if m := n.Attr(RoleModifier); m != nil {
		p.print(m.Label)
		p.print(" ")
	}
}

func (p *printer) typeParams(n *Node) {
	if len(n.TypeParams) == 0 {
		return
	}
	p.print("<")
	for i, tp := range n.TypeParams {
		if i > 0 {
			p.print(", ")
		}
		p.print(tp.Label)
	}
	p.print(">")
}

func (p *printer) params(n *Node) {
	p.print("(")
	for i, param := range n.Params {
		if i > 0 {
			p.print(", ")
		}
		if t := param.Attr(RoleType); t != nil {
			p.print(p.expr(t))
			p.print(" ")
		}
		p.print(param.Label)
	}
	p.print(")")
}

func (p *printer) throws(n *Node) {
	thrown := n.sortedThrown()
	if len(thrown) == 0 {
		return
	}
	p.print(" throws ")
	for i, t := range thrown {
		if i > 0 {
			p.print(", ")
		}
		p.print(t.Label)
	}
}

func (p *printer) members(n *Node, indent int) {
	p.print(" {")
	for _, m := range n.Members {
		p.line(indent + 1)
		p.node(m, indent+1)
	}
	p.line(indent)
	p.print("}")
}

func (p *printer) block(n *Node, indent int) {
	p.print("{")
	for _, s := range n.Statements {
		p.line(indent + 1)
		p.node(s, indent+1)
	}
	p.line(indent)
	p.print("}")
}

// node prints declarations and statements. Expression kinds appearing in
// statement position get a trailing semicolon.
func (p *printer) node(n *Node, indent int) {
	switch n.Kind {
	case KindFile:
		for i, m := range n.Members {
			if i > 0 {
				p.print("\n\n")
			}
			p.node(m, indent)
		}
		p.print("\n")
	case KindClass, KindInterface, KindEnum:
		p.modifiers(n)
		switch n.Kind {
		case KindClass:
			p.print("class ")
		case KindInterface:
			p.print("interface ")
		case KindEnum:
			p.print("enum ")
		}
		p.print(n.Label)
		p.typeParams(n)
		p.members(n, indent)
	case KindMethod:
		p.modifiers(n)
		if len(n.TypeParams) > 0 {
			p.typeParams(n)
			p.print(" ")
		}
		if t := n.Attr(RoleType); t != nil {
			p.print(p.expr(t))
			p.print(" ")
		}
		p.print(n.Label)
		p.params(n)
		p.throws(n)
		if body := n.Attr(RoleBody); body != nil {
			p.print(" ")
			p.block(body, indent)
		} else {
			p.print(";")
		}
	case KindConstructor:
		p.modifiers(n)
		p.print(n.Label)
		p.params(n)
		p.throws(n)
		if body := n.Attr(RoleBody); body != nil {
			p.print(" ")
			p.block(body, indent)
		} else {
			p.print(";")
		}
	case KindField, KindLocal:
		p.modifiers(n)
		if t := n.Attr(RoleType); t != nil {
			p.print(p.expr(t))
			p.print(" ")
		}
		p.print(n.Label)
		if init := n.Attr(RoleInit); init != nil {
			p.print(" = ")
			p.print(p.expr(init))
		}
		p.print(";")
	case KindBlock:
		p.block(n, indent)
	case KindIf:
		p.print("if (")
		if cond := n.Attr(RoleCondition); cond != nil {
			p.print(p.expr(cond))
		}
		p.print(") ")
		if then := n.Attr(RoleThen); then != nil {
			p.node(then, indent)
		}
		if els := n.Attr(RoleElse); els != nil {
			p.print(" else ")
			p.node(els, indent)
		}
	case KindLoop:
		p.print("while (")
		if cond := n.Attr(RoleCondition); cond != nil {
			p.print(p.expr(cond))
		}
		p.print(") ")
		if body := n.Attr(RoleBody); body != nil {
			p.node(body, indent)
		}
	case KindReturn:
		p.print("return")
		if e := n.Attr(RoleExpr); e != nil {
			p.print(" ")
			p.print(p.expr(e))
		}
		p.print(";")
	default:
		p.print(p.expr(n))
		p.print(";")
	}
}

// expr renders expression kinds inline.
func (p *printer) expr(n *Node) string {
	switch n.Kind {
	case KindCall:
		var b strings.Builder
		if target := n.Attr(RoleTarget); target != nil {
			b.WriteString(p.expr(target))
			b.WriteString(".")
		}
		b.WriteString(n.Label)
		b.WriteString("(")
		for i, a := range n.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.expr(a))
		}
		b.WriteString(")")
		return b.String()
	case KindAssign:
		return p.expr2(n, " = ")
	case KindBinary:
		return p.expr2(n, " "+n.Label+" ")
	default:
		return n.Label
	}
}

func (p *printer) expr2(n *Node, op string) string {
	left, right := "", ""
	if l := n.Attr(RoleLeft); l != nil {
		left = p.expr(l)
	}
	if r := n.Attr(RoleRight); r != nil {
		right = p.expr(r)
	}
	return left + op + right
}
