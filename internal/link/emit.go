package link

import (
	"github.com/nostopgmaming17/luabundle/internal/ast"
	"github.com/nostopgmaming17/luabundle/internal/module"
)

// EmitPlan is the final, ordered statement list the printer walks to
// produce output, plus the subset of imported Items that need a forward
// declaration because they participate in a dependency cycle (spec §4.6).
type EmitPlan struct {
	Stmts          []ast.Stmt
	ForwardDeclare map[*Item]bool
}

// Order computes the final emission order, per spec §4.6:
//
//   - the entry module's own statement stream is emitted in its original
//     source order, completely unchanged (the "entry-module
//     verbatim-order policy") — its bare top-level calls and control-flow
//     statements are taken straight from the module body, never reordered
//     or dropped
//   - only the *imported* modules' declarations are free to be reordered:
//     they are visited ascending by FileSeq (discovery order), and within
//     a module, an item may only move earlier than its original position,
//     never later
//   - a dependency on an item not yet emitted triggers emitting that item
//     first (post-order DFS on the Item dependency graph); a cycle is
//     broken by emitting a `local NAME` stub for whichever item closes the
//     cycle, ahead of its cyclic siblings, and rewriting that item's own
//     declaration into a plain assignment into the stub once its turn
//     comes — so mutually-recursive declarations across modules still
//     resolve to each other at runtime instead of an unbound global
func Order(g *module.Graph, items map[string][]*Item, plan *Plan) *EmitPlan {
	declByName := make(map[string]*Item)
	for _, mod := range g.Modules {
		for _, it := range items[mod.Key] {
			if it.Kind == KindStatement {
				continue // no declared name; never a dependency target
			}
			global := plan.GlobalRename[keyOf(mod.Key, it.Name)]
			declByName[global] = it
		}
	}

	ep := &EmitPlan{ForwardDeclare: make(map[*Item]bool)}
	emitted := make(map[*Item]bool)
	inStack := make(map[*Item]bool)

	var emitItem func(it *Item)
	emitItem = func(it *Item) {
		if emitted[it] {
			return
		}
		if inStack[it] {
			// Cycle: this item's dependency chain loops back to an item
			// still being emitted. Emit a `local NAME` stub right here, so
			// it textually precedes every cyclic sibling still on the
			// stack, and mark it forward-declared so its own declaration
			// becomes a plain assignment once it is actually emitted below
			// (a second `local` at that point would just shadow the stub
			// instead of satisfying it).
			if !ep.ForwardDeclare[it] {
				ep.ForwardDeclare[it] = true
				if stub, ok := forwardDeclareStub(it, plan); ok {
					ep.Stmts = append(ep.Stmts, stub)
				}
			}
			return
		}
		inStack[it] = true
		for dep := range resolvedDeps(it, plan) {
			if depItem, ok := declByName[dep]; ok && depItem != it {
				emitItem(depItem)
			}
		}
		inStack[it] = false
		emitted[it] = true
		if ep.ForwardDeclare[it] {
			if stmt := convertToAssignment(it, plan); stmt != nil {
				ep.Stmts = append(ep.Stmts, stmt)
			}
		} else if stmt, ok := it.Stmt.(ast.Stmt); ok {
			ep.Stmts = append(ep.Stmts, stmt)
		}
	}

	entry := entryModule(g)

	// Imported modules are visited ascending by FileSeq (spec §4.6's
	// `for each imported module m in file_seq order`); true dependency
	// ordering across modules is still enforced by emitItem's own
	// post-order walk, this only fixes the relative order of independent
	// modules that don't depend on each other at all.
	for _, mod := range g.Modules {
		if mod.IsEntry {
			continue
		}
		for _, it := range items[mod.Key] {
			emitItem(it)
		}
	}

	if entry != nil {
		// The entry module's own Items may depend on imported
		// declarations not yet pulled in by any other module's items;
		// emit those first, then append the entry module's full
		// statement stream verbatim.
		for _, it := range items[entry.Key] {
			for dep := range resolvedDeps(it, plan) {
				if depItem, ok := declByName[dep]; ok && depItem.Module != entry {
					emitItem(depItem)
				}
			}
		}
		if entry.Body != nil {
			ep.Stmts = append(ep.Stmts, entry.Body.Stmts...)
		}
	}

	return ep
}

// resolvedDeps maps an item's free-identifier/dotted-path dependency set
// through the rename plan to global declaration names, so it can be
// looked up in decl_by_name regardless of which module declared it.
func resolvedDeps(it *Item, plan *Plan) map[string]bool {
	out := make(map[string]bool, len(it.Deps))
	for name := range it.Deps {
		if g, ok := plan.AliasMap[keyOf(it.Module.Key, name)]; ok {
			out[g] = true
			continue
		}
		if g, ok := plan.GlobalRename[keyOf(it.Module.Key, name)]; ok {
			out[g] = true
			continue
		}
	}
	return out
}

// globalNameOf returns the unique global name Allocate assigned to it, if
// any (KindStatement items have none).
func globalNameOf(it *Item, plan *Plan) (string, bool) {
	name, ok := plan.GlobalRename[keyOf(it.Module.Key, it.Name)]
	return name, ok
}

// forwardDeclareStub builds the `local NAME` statement that must precede a
// cycle-closing item's own declaration, so the cyclic siblings emitted in
// between can close over it as an upvalue.
func forwardDeclareStub(it *Item, plan *Plan) (ast.Stmt, bool) {
	name, ok := globalNameOf(it, plan)
	if !ok {
		return nil, false
	}
	return &ast.LocalDecl{Names: []string{name}}, true
}

// convertToAssignment rewrites a forward-declared item's own statement so
// it assigns into the stub local instead of redeclaring it: a top-level
// `local function NAME() ... end` becomes `NAME = function() ... end`, and
// a single-name `local NAME = expr` becomes `NAME = expr`. Anything else
// (methods on a dotted path, member assignments, multi-name locals) keeps
// its original form, since those don't redeclare the stubbed local.
func convertToAssignment(it *Item, plan *Plan) ast.Stmt {
	name, ok := globalNameOf(it, plan)
	if !ok {
		if stmt, ok := it.Stmt.(ast.Stmt); ok {
			return stmt
		}
		return nil
	}
	switch s := it.Stmt.(type) {
	case *ast.FuncDecl:
		if len(s.Path) == 1 {
			return &ast.Assign{
				LHS: []ast.Expr{&ast.Ident{Name: name}},
				RHS: []ast.Expr{s.Fn},
			}
		}
	case *ast.LocalDecl:
		if len(s.Names) == 1 && len(s.Exprs) == 1 {
			return &ast.Assign{
				LHS: []ast.Expr{&ast.Ident{Name: name}},
				RHS: []ast.Expr{s.Exprs[0]},
			}
		}
	}
	if stmt, ok := it.Stmt.(ast.Stmt); ok {
		return stmt
	}
	return nil
}

func entryModule(g *module.Graph) *module.Module {
	for _, mod := range g.Modules {
		if mod.IsEntry {
			return mod
		}
	}
	return nil
}
