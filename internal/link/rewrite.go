package link

import "github.com/nostopgmaming17/luabundle/internal/ast"

// Rewriter applies a Plan's renames to one module's statements (spec
// §4.5). It descends into every nested syntactic form an identifier can
// appear in — blocks, conditions, table constructors, call arguments,
// nested function bodies — but it never renames a nested function's own
// formal parameters or a nested local declaration's own names: only
// *references* are rewritten, never binding occurrences below the
// module's top level, since those are already unique within their own
// lexical scope.
type Rewriter struct {
	moduleKey string
	alias     map[string]string // local alias name -> global name, this module's import bindings
	global    map[string]string // this module's own top-level declared name -> global name
	depth     int               // block nesting depth; 1 while rewriting the module's top-level block
}

// NewRewriter builds a Rewriter scoped to one module from a Plan.
func NewRewriter(moduleKey string, plan *Plan, localNames []string) *Rewriter {
	r := &Rewriter{
		moduleKey: moduleKey,
		alias:     make(map[string]string),
		global:    make(map[string]string),
	}
	for _, name := range localNames {
		if g, ok := plan.GlobalRename[keyOf(moduleKey, name)]; ok {
			r.global[name] = g
		}
	}
	for k, global := range plan.AliasMap {
		mk, alias := splitModuleKey(k)
		if mk == moduleKey {
			r.alias[alias] = global
		}
	}
	return r
}

func splitModuleKey(k string) (moduleKey, name string) {
	for i := 0; i < len(k); i++ {
		if k[i] == 0 {
			return k[:i], k[i+1:]
		}
	}
	return k, ""
}

// resolve implements the precedence spec §4.5 requires: alias_map first
// (import bindings), then local_rewrite_map (this module's own top-level
// declarations), then the identifier is left unchanged (it is either a
// genuine global/builtin reference or a nested local, neither of which is
// renamed).
func (r *Rewriter) resolve(name string) (string, bool) {
	if g, ok := r.alias[name]; ok {
		return g, true
	}
	if g, ok := r.global[name]; ok {
		return g, true
	}
	return "", false
}

// RewriteBlock rewrites every statement of b in place and returns it.
func (r *Rewriter) RewriteBlock(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	r.depth++
	defer func() { r.depth-- }()
	for i, s := range b.Stmts {
		b.Stmts[i] = r.rewriteStmt(s)
	}
	return b
}

func (r *Rewriter) rewriteStmt(s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.FuncDecl:
		if len(n.Path) > 0 {
			if g, ok := r.resolve(n.Path[0]); ok {
				n.Path[0] = g
			}
		}
		n.Fn = r.rewriteFuncLiteral(n.Fn)
	case *ast.LocalDecl:
		if r.depth == 1 {
			for i, name := range n.Names {
				if g, ok := r.global[name]; ok {
					n.Names[i] = g
				}
			}
		}
		for i, e := range n.Exprs {
			n.Exprs[i] = r.rewriteExpr(e)
		}
	case *ast.Assign:
		for i, e := range n.LHS {
			n.LHS[i] = r.rewriteAssignTarget(e)
		}
		for i, e := range n.RHS {
			n.RHS[i] = r.rewriteExpr(e)
		}
	case *ast.ExprStmt:
		n.Call = r.rewriteExpr(n.Call).(*ast.Call)
	case *ast.Return:
		for i, e := range n.Exprs {
			n.Exprs[i] = r.rewriteExpr(e)
		}
	case *ast.Do:
		r.RewriteBlock(n.Body)
	case *ast.If:
		for i := range n.Clauses {
			n.Clauses[i].Cond = r.rewriteExpr(n.Clauses[i].Cond)
			r.RewriteBlock(n.Clauses[i].Body)
		}
		if n.Else != nil {
			r.RewriteBlock(n.Else)
		}
	case *ast.While:
		n.Cond = r.rewriteExpr(n.Cond)
		r.RewriteBlock(n.Body)
	case *ast.Repeat:
		r.RewriteBlock(n.Body)
		n.Cond = r.rewriteExpr(n.Cond)
	case *ast.NumericFor:
		n.Start = r.rewriteExpr(n.Start)
		n.Stop = r.rewriteExpr(n.Stop)
		if n.Step != nil {
			n.Step = r.rewriteExpr(n.Step)
		}
		r.RewriteBlock(n.Body)
	case *ast.GenericFor:
		for i, e := range n.Exprs {
			n.Exprs[i] = r.rewriteExpr(e)
		}
		r.RewriteBlock(n.Body)
	}
	return s
}

func (r *Rewriter) rewriteAssignTarget(e ast.Expr) ast.Expr {
	switch t := e.(type) {
	case *ast.Ident:
		if g, ok := r.resolve(t.Name); ok {
			t.Name = g
		}
		return t
	case *ast.Member:
		return r.rewriteExpr(t)
	}
	return e
}

// rewriteFuncLiteral descends into a function body without renaming its
// own parameter list — formals are a fresh nested scope, never a global
// top-level declaration.
func (r *Rewriter) rewriteFuncLiteral(fn *ast.FuncLiteral) *ast.FuncLiteral {
	if fn == nil {
		return nil
	}
	r.RewriteBlock(fn.Body)
	return fn
}

func (r *Rewriter) rewriteExpr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Ident:
		if g, ok := r.resolve(n.Name); ok {
			n.Name = g
		}
		return n
	case *ast.Literal:
		return n
	case *ast.Paren:
		n.Inner = r.rewriteExpr(n.Inner)
		return n
	case *ast.BinOp:
		n.Left = r.rewriteExpr(n.Left)
		n.Right = r.rewriteExpr(n.Right)
		return n
	case *ast.UnOp:
		n.Operand = r.rewriteExpr(n.Operand)
		return n
	case *ast.Member:
		n.Base = r.rewriteExpr(n.Base)
		if n.Computed {
			n.Index = r.rewriteExpr(n.Index)
		}
		return n
	case *ast.Call:
		n.Func = r.rewriteExpr(n.Func)
		for i, a := range n.Args {
			n.Args[i] = r.rewriteExpr(a)
		}
		return n
	case *ast.Table:
		for i, f := range n.Fields {
			if f.Key != nil {
				n.Fields[i].Key = r.rewriteExpr(f.Key)
			}
			n.Fields[i].Value = r.rewriteExpr(f.Value)
		}
		return n
	case *ast.FuncLiteral:
		return r.rewriteFuncLiteral(n)
	}
	return e
}
