// Package link implements the heart of the core: the Identifier Extractor
// (C3), the Name Allocator & Rename Planner (C4), the AST Rewriter (C5),
// and the Emission Orderer (C6) of spec §4.3–§4.6.
package link

import "github.com/nostopgmaming17/luabundle/internal/ast"

// Deps is the unordered dependency set spec §4.3 describes: simple
// identifiers and dotted member-access paths referenced by a statement.
type Deps map[string]bool

func (d Deps) add(name string) { d[name] = true }

// ExtractDeps walks stmt and returns every identifier and dotted member
// path it references, per spec §4.3. Names bound inside the statement
// (function parameters, nested locals) are not filtered out, and a
// function declaration's own name is included.
func ExtractDeps(stmt ast.Stmt) Deps {
	d := Deps{}
	walkStmt(stmt, d)
	return d
}

func walkStmt(s ast.Stmt, d Deps) {
	switch n := s.(type) {
	case *ast.FuncDecl:
		d.add(n.Path[0])
		if len(n.Path) > 1 {
			d.add(dottedPath(n.Path))
		}
		walkFunc(n.Fn, d)
	case *ast.LocalDecl:
		for _, e := range n.Exprs {
			walkExpr(e, d)
		}
	case *ast.Assign:
		for _, lhs := range n.LHS {
			walkAssignTarget(lhs, d)
		}
		for _, rhs := range n.RHS {
			walkExpr(rhs, d)
		}
	case *ast.ExprStmt:
		walkExpr(n.Call, d)
	case *ast.Return:
		for _, e := range n.Exprs {
			walkExpr(e, d)
		}
	case *ast.Break:
		// no dependencies
	case *ast.Do:
		walkBlock(n.Body, d)
	case *ast.If:
		for _, c := range n.Clauses {
			walkExpr(c.Cond, d)
			walkBlock(c.Body, d)
		}
		if n.Else != nil {
			walkBlock(n.Else, d)
		}
	case *ast.While:
		walkExpr(n.Cond, d)
		walkBlock(n.Body, d)
	case *ast.Repeat:
		walkBlock(n.Body, d)
		walkExpr(n.Cond, d)
	case *ast.NumericFor:
		walkExpr(n.Start, d)
		walkExpr(n.Stop, d)
		if n.Step != nil {
			walkExpr(n.Step, d)
		}
		walkBlock(n.Body, d)
	case *ast.GenericFor:
		for _, e := range n.Exprs {
			walkExpr(e, d)
		}
		walkBlock(n.Body, d)
	}
}

// walkAssignTarget records a Member assignment's base/path the same way a
// reference would (the base is always read-visible even when assigned
// through), and an Ident target as a normal reference.
func walkAssignTarget(e ast.Expr, d Deps) {
	switch t := e.(type) {
	case *ast.Ident:
		d.add(t.Name)
	case *ast.Member:
		walkExpr(t, d)
	}
}

func walkBlock(b *ast.Block, d Deps) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmt(s, d)
	}
}

func walkFunc(fn *ast.FuncLiteral, d Deps) {
	if fn == nil {
		return
	}
	walkBlock(fn.Body, d)
}

// walkExpr records identifier/dotted-path dependencies. The "base of a
// call is not re-recorded" edge case (spec §4.3) is implemented by
// handling *ast.Call specially rather than falling through to the generic
// *ast.Member handling for its Func field.
func walkExpr(e ast.Expr, d Deps) {
	switch n := e.(type) {
	case *ast.Ident:
		d.add(n.Name)
	case *ast.Literal:
		// no dependencies
	case *ast.Paren:
		walkExpr(n.Inner, d)
	case *ast.BinOp:
		walkExpr(n.Left, d)
		walkExpr(n.Right, d)
	case *ast.UnOp:
		walkExpr(n.Operand, d)
	case *ast.Member:
		recordMemberPath(n, d)
		walkMemberBase(n.Base, d)
	case *ast.Call:
		recordCallPath(n, d)
		for _, a := range n.Args {
			walkExpr(a, d)
		}
	case *ast.Table:
		for _, f := range n.Fields {
			if f.Key != nil {
				walkExpr(f.Key, d)
			}
			walkExpr(f.Value, d)
		}
	case *ast.FuncLiteral:
		walkFunc(n, d)
	}
}

// walkMemberBase descends into a Member's base without re-walking the
// Member itself (recordMemberPath already handled the dotted path).
func walkMemberBase(e ast.Expr, d Deps) {
	switch n := e.(type) {
	case *ast.Ident:
		d.add(n.Name)
	case *ast.Member:
		recordMemberPath(n, d)
		walkMemberBase(n.Base, d)
	default:
		walkExpr(e, d)
	}
}

// recordMemberPath adds the full dotted path of a constant-indexed member
// access, per spec §4.3; the base identifier is added by walkMemberBase.
// Computed (non-literal) indices contribute no dotted path; their index
// expression is walked instead.
func recordMemberPath(n *ast.Member, d Deps) {
	if n.Computed {
		walkExpr(n.Index, d)
		return
	}
	if p, ok := dottedPathOf(n); ok {
		d.add(p)
	}
}

// recordCallPath records the call's dotted path (if its Func is a
// qualified member access) without double-recording the base Member
// separately — spec §4.3's "the call itself records the path" rule.
func recordCallPath(n *ast.Call, d Deps) {
	switch f := n.Func.(type) {
	case *ast.Ident:
		d.add(f.Name)
		if n.Method != "" {
			d.add(dottedPath([]string{f.Name, n.Method}))
		}
	case *ast.Member:
		if p, ok := dottedPathOf(f); ok {
			if n.Method != "" {
				d.add(dottedPath(append(splitPath(p), n.Method)))
			} else {
				d.add(p)
			}
			baseName, _ := rootIdent(f)
			d.add(baseName)
			return
		}
		// Non-literal base chain: fall back to walking normally.
		walkExpr(f, d)
	default:
		walkExpr(n.Func, d)
	}
}

// dottedPathOf returns the full dotted path string of a Member chain whose
// base resolves entirely to identifier/constant-index accesses, per spec
// §4.3. ok is false for computed accesses anywhere in the chain.
func dottedPathOf(m *ast.Member) (string, bool) {
	segs, ok := pathSegments(m)
	if !ok {
		return "", false
	}
	return dottedPath(segs), true
}

func pathSegments(e ast.Expr) ([]string, bool) {
	switch n := e.(type) {
	case *ast.Ident:
		return []string{n.Name}, true
	case *ast.Member:
		if n.Computed {
			return nil, false
		}
		base, ok := pathSegments(n.Base)
		if !ok {
			return nil, false
		}
		return append(base, n.NameIndex), true
	default:
		return nil, false
	}
}

func rootIdent(e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name, true
	case *ast.Member:
		return rootIdent(n.Base)
	default:
		return "", false
	}
}

func splitPath(p string) []string {
	var segs []string
	cur := ""
	for _, r := range p {
		if r == '.' {
			segs = append(segs, cur)
			cur = ""
			continue
		}
		cur += string(r)
	}
	segs = append(segs, cur)
	return segs
}

func dottedPath(segs []string) string {
	out := segs[0]
	for _, s := range segs[1:] {
		out += "." + s
	}
	return out
}
