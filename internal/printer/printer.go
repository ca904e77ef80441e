// Package printer renders a rewritten statement stream back to source
// text, in the two registers spec §6 names: a readable, indented form and
// a minified single-pass form used ahead of the minify pipeline's
// re-parse check.
package printer

import (
	"fmt"
	"strings"

	"github.com/nostopgmaming17/luabundle/internal/ast"
)

// Beautiful renders stmts as indented, newline-separated source text.
func Beautiful(stmts []ast.Stmt) string {
	var b strings.Builder
	p := &printer{w: &b, pretty: true}
	for _, s := range stmts {
		p.stmt(s, 0)
	}
	return b.String()
}

// Mini renders stmts as compact source text: no indentation, statements
// separated by the minimum whitespace/semicolons needed for validity.
func Mini(stmts []ast.Stmt) string {
	var b strings.Builder
	p := &printer{w: &b, pretty: false}
	for _, s := range stmts {
		p.stmt(s, 0)
	}
	return b.String()
}

type printer struct {
	w      *strings.Builder
	pretty bool
}

func (p *printer) indent(depth int) {
	if p.pretty {
		p.w.WriteString(strings.Repeat("  ", depth))
	}
}

func (p *printer) nl() {
	if p.pretty {
		p.w.WriteByte('\n')
	} else {
		p.w.WriteByte(' ')
	}
}

func (p *printer) stmt(s ast.Stmt, depth int) {
	p.indent(depth)
	switch n := s.(type) {
	case *ast.FuncDecl:
		if n.IsLocal {
			p.w.WriteString("local ")
		}
		p.w.WriteString("function ")
		p.w.WriteString(n.Path[0])
		last := len(n.Path) - 1
		for i := 1; i < last; i++ {
			p.w.WriteByte('.')
			p.w.WriteString(n.Path[i])
		}
		if last > 0 {
			sep := byte('.')
			if n.IsMethod {
				sep = ':'
			}
			p.w.WriteByte(sep)
			p.w.WriteString(n.Path[last])
		}
		p.funcParams(n.Fn)
		p.nl()
		p.block(n.Fn.Body, depth+1)
		p.indent(depth)
		p.w.WriteString("end")
		p.nl()
	case *ast.LocalDecl:
		p.w.WriteString("local ")
		p.w.WriteString(strings.Join(n.Names, ", "))
		if len(n.Exprs) > 0 {
			p.w.WriteString(" = ")
			p.exprList(n.Exprs)
		}
		p.nl()
	case *ast.Assign:
		p.exprList(n.LHS)
		p.w.WriteString(" = ")
		p.exprList(n.RHS)
		p.nl()
	case *ast.ExprStmt:
		p.expr(n.Call)
		p.nl()
	case *ast.Return:
		p.w.WriteString("return")
		if len(n.Exprs) > 0 {
			p.w.WriteByte(' ')
			p.exprList(n.Exprs)
		}
		p.nl()
	case *ast.Break:
		p.w.WriteString("break")
		p.nl()
	case *ast.Do:
		p.w.WriteString("do")
		p.nl()
		p.block(n.Body, depth+1)
		p.indent(depth)
		p.w.WriteString("end")
		p.nl()
	case *ast.If:
		for i, c := range n.Clauses {
			if i == 0 {
				p.w.WriteString("if ")
			} else {
				p.indent(depth)
				p.w.WriteString("elseif ")
			}
			p.expr(c.Cond)
			p.w.WriteString(" then")
			p.nl()
			p.block(c.Body, depth+1)
		}
		if n.Else != nil {
			p.indent(depth)
			p.w.WriteString("else")
			p.nl()
			p.block(n.Else, depth+1)
		}
		p.indent(depth)
		p.w.WriteString("end")
		p.nl()
	case *ast.While:
		p.w.WriteString("while ")
		p.expr(n.Cond)
		p.w.WriteString(" do")
		p.nl()
		p.block(n.Body, depth+1)
		p.indent(depth)
		p.w.WriteString("end")
		p.nl()
	case *ast.Repeat:
		p.w.WriteString("repeat")
		p.nl()
		p.block(n.Body, depth+1)
		p.indent(depth)
		p.w.WriteString("until ")
		p.expr(n.Cond)
		p.nl()
	case *ast.NumericFor:
		p.w.WriteString(fmt.Sprintf("for %s = ", n.Var))
		p.expr(n.Start)
		p.w.WriteString(", ")
		p.expr(n.Stop)
		if n.Step != nil {
			p.w.WriteString(", ")
			p.expr(n.Step)
		}
		p.w.WriteString(" do")
		p.nl()
		p.block(n.Body, depth+1)
		p.indent(depth)
		p.w.WriteString("end")
		p.nl()
	case *ast.GenericFor:
		p.w.WriteString("for ")
		p.w.WriteString(strings.Join(n.Names, ", "))
		p.w.WriteString(" in ")
		p.exprList(n.Exprs)
		p.w.WriteString(" do")
		p.nl()
		p.block(n.Body, depth+1)
		p.indent(depth)
		p.w.WriteString("end")
		p.nl()
	}
}

func (p *printer) funcParams(fn *ast.FuncLiteral) {
	p.w.WriteByte('(')
	params := fn.Params
	if fn.IsMethod && len(params) > 0 && params[0] == "self" {
		params = params[1:]
	}
	p.w.WriteString(strings.Join(params, ", "))
	if fn.Vararg {
		if len(params) > 0 {
			p.w.WriteString(", ")
		}
		p.w.WriteString("...")
	}
	p.w.WriteByte(')')
}

func (p *printer) block(b *ast.Block, depth int) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		p.stmt(s, depth)
	}
}

func (p *printer) exprList(es []ast.Expr) {
	for i, e := range es {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.expr(e)
	}
}

func (p *printer) expr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Ident:
		p.w.WriteString(n.Name)
	case *ast.Literal:
		switch n.Kind {
		case ast.LitString:
			p.w.WriteString(fmt.Sprintf("%q", n.Value))
		default:
			p.w.WriteString(n.Value)
		}
	case *ast.Paren:
		p.w.WriteByte('(')
		p.expr(n.Inner)
		p.w.WriteByte(')')
	case *ast.BinOp:
		p.expr(n.Left)
		p.w.WriteByte(' ')
		p.w.WriteString(n.Op)
		p.w.WriteByte(' ')
		p.expr(n.Right)
	case *ast.UnOp:
		p.w.WriteString(n.Op)
		if n.Op == "not" {
			p.w.WriteByte(' ')
		}
		p.expr(n.Operand)
	case *ast.Member:
		p.expr(n.Base)
		if n.Computed {
			p.w.WriteByte('[')
			p.expr(n.Index)
			p.w.WriteByte(']')
		} else {
			p.w.WriteByte('.')
			p.w.WriteString(n.NameIndex)
		}
	case *ast.Call:
		p.expr(n.Func)
		if n.Method != "" {
			p.w.WriteByte(':')
			p.w.WriteString(n.Method)
		}
		p.w.WriteByte('(')
		p.exprList(n.Args)
		p.w.WriteByte(')')
	case *ast.Table:
		p.w.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				p.w.WriteString(", ")
			}
			if f.Key != nil {
				p.w.WriteByte('[')
				p.expr(f.Key)
				p.w.WriteString("] = ")
			}
			p.expr(f.Value)
		}
		p.w.WriteByte('}')
	case *ast.FuncLiteral:
		p.w.WriteString("function")
		p.funcParams(n)
		p.nl()
		p.block(n.Body, 1)
		p.w.WriteString("end")
	}
}
