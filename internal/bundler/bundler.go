// Package bundler wires the Path Resolver, Module Graph Builder, and the
// four link-and-flatten stages together into the single entry point spec
// §6 calls "Bundler entry point": Bundle(entry_path, minify, define, mangle).
package bundler

import (
	"github.com/nostopgmaming17/luabundle/internal/ast"
	berrors "github.com/nostopgmaming17/luabundle/internal/errors"
	"github.com/nostopgmaming17/luabundle/internal/link"
	"github.com/nostopgmaming17/luabundle/internal/mangle"
	"github.com/nostopgmaming17/luabundle/internal/module"
	"github.com/nostopgmaming17/luabundle/internal/parser"
	"github.com/nostopgmaming17/luabundle/internal/printer"
)

// Options configures one Bundle call.
type Options struct {
	Minify     bool
	Mangle     mangle.Mode
	Define     module.DefineMap
	Extensions module.Extensions
	ReadFile   module.ReadFile // nil uses module.OSReadFile
}

// Result is everything a caller needs after a successful bundle: the
// chosen-register source text plus the graph it was built from (useful for
// the `explain` debugging subcommand).
type Result struct {
	Source string
	Graph  *module.Graph
}

// Bundle implements spec §6's fatal-error/no-partial-output guarantee: any
// error from any stage aborts with no Result, never a partially-written
// one.
func Bundle(entryPath string, opts Options) (*Result, error) {
	read := opts.ReadFile
	if read == nil {
		read = module.OSReadFile
	}

	g, err := module.Build(entryPath, opts.Define, read, opts.Extensions)
	if err != nil {
		return nil, err
	}

	items := link.BuildAllItems(g)
	plan, err := link.Allocate(g, items)
	if err != nil {
		return nil, err
	}

	mangled := applyMangle(opts.Mangle, g, plan)

	for _, mod := range g.Modules {
		names := make([]string, 0, len(items[mod.Key]))
		for _, it := range items[mod.Key] {
			names = append(names, it.Name)
		}
		rw := link.NewRewriter(mod.Key, plan, names)
		rw.RewriteBlock(mod.Body)
	}
	applyManglePlan(mangled, g)

	emitPlan := link.Order(g, items, plan)
	stmts := emitPlan.Stmts

	var src string
	if opts.Minify {
		src = printer.Mini(stmts)
		if _, err := parser.Parse(src, "<bundle>"); err != nil {
			return nil, berrors.ReparseError("<bundle>", err)
		}
	} else {
		src = printer.Beautiful(stmts)
	}

	return &Result{Source: src, Graph: g}, nil
}

// applyMangle builds a mangling Plan from the rename Plan's output names,
// keeping the entry module's own declarations unmangled under Auto mode.
func applyMangle(mode mangle.Mode, g *module.Graph, plan *link.Plan) mangle.Plan {
	if mode == mangle.None {
		return nil
	}
	keep := make(map[string]bool)
	for _, mod := range g.Modules {
		if !mod.IsEntry {
			continue
		}
		for key, global := range plan.GlobalRename {
			if hasModulePrefix(key, mod.Key) {
				keep[global] = true
			}
		}
	}
	return mangle.Build(mode, mangle.Names{All: plan.Order, Keep: keep})
}

// applyManglePlan rewrites every Ident/FuncDecl name in the graph's bodies
// through the mangling plan. It runs as a second pass over already
// globally-renamed bodies, so it only needs to substitute exact-name
// matches rather than repeat alias/local resolution.
func applyManglePlan(mp mangle.Plan, g *module.Graph) {
	if len(mp) == 0 {
		return
	}
	for _, mod := range g.Modules {
		manglesBlock(mod.Body, mp)
	}
}

func manglesBlock(b *ast.Block, mp mangle.Plan) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		manglesStmt(s, mp)
	}
}

func manglesStmt(s ast.Stmt, mp mangle.Plan) {
	switch n := s.(type) {
	case *ast.FuncDecl:
		if len(n.Path) > 0 {
			n.Path[0] = mp.Apply(n.Path[0])
		}
		manglesBlock(n.Fn.Body, mp)
	case *ast.LocalDecl:
		for i, name := range n.Names {
			n.Names[i] = mp.Apply(name)
		}
		for i, e := range n.Exprs {
			manglesExpr(e, mp)
			_ = i
		}
	case *ast.Assign:
		for _, e := range n.LHS {
			manglesExpr(e, mp)
		}
		for _, e := range n.RHS {
			manglesExpr(e, mp)
		}
	case *ast.ExprStmt:
		manglesExpr(n.Call, mp)
	case *ast.Return:
		for _, e := range n.Exprs {
			manglesExpr(e, mp)
		}
	case *ast.Do:
		manglesBlock(n.Body, mp)
	case *ast.If:
		for i := range n.Clauses {
			manglesExpr(n.Clauses[i].Cond, mp)
			manglesBlock(n.Clauses[i].Body, mp)
		}
		manglesBlock(n.Else, mp)
	case *ast.While:
		manglesExpr(n.Cond, mp)
		manglesBlock(n.Body, mp)
	case *ast.Repeat:
		manglesBlock(n.Body, mp)
		manglesExpr(n.Cond, mp)
	case *ast.NumericFor:
		manglesExpr(n.Start, mp)
		manglesExpr(n.Stop, mp)
		if n.Step != nil {
			manglesExpr(n.Step, mp)
		}
		manglesBlock(n.Body, mp)
	case *ast.GenericFor:
		for _, e := range n.Exprs {
			manglesExpr(e, mp)
		}
		manglesBlock(n.Body, mp)
	}
}

func manglesExpr(e ast.Expr, mp mangle.Plan) {
	switch n := e.(type) {
	case *ast.Ident:
		n.Name = mp.Apply(n.Name)
	case *ast.Paren:
		manglesExpr(n.Inner, mp)
	case *ast.BinOp:
		manglesExpr(n.Left, mp)
		manglesExpr(n.Right, mp)
	case *ast.UnOp:
		manglesExpr(n.Operand, mp)
	case *ast.Member:
		manglesExpr(n.Base, mp)
		if n.Computed {
			manglesExpr(n.Index, mp)
		}
	case *ast.Call:
		manglesExpr(n.Func, mp)
		for _, a := range n.Args {
			manglesExpr(a, mp)
		}
	case *ast.Table:
		for _, f := range n.Fields {
			if f.Key != nil {
				manglesExpr(f.Key, mp)
			}
			manglesExpr(f.Value, mp)
		}
	case *ast.FuncLiteral:
		manglesBlock(n.Body, mp)
	}
}

func hasModulePrefix(key, moduleKey string) bool {
	prefix := moduleKey + "\x00"
	return len(key) >= len(prefix) && key[:len(prefix)] == prefix
}

