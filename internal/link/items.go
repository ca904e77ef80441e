package link

import (
	"strings"

	"github.com/nostopgmaming17/luabundle/internal/ast"
	"github.com/nostopgmaming17/luabundle/internal/module"
)

// Item kinds, spec §3. KindStatement covers any top-level statement with
// no declared name of its own (a bare call, a top-level if/while used for
// side effects, ...): it is not a declaration, but it still occupies a
// position in the emitted statement sequence exactly like one.
const (
	KindFunction     = "function"
	KindMethod       = "method"
	KindLocal        = "local"
	KindMemberAssign = "member_assignment"
	KindStatement    = "statement"
)

// BuildItems partitions a module's top-level statements into the Items
// spec §3 describes: one per top-level function/method declaration, one
// per name bound by a top-level local declaration, one per top-level
// member assignment with a constant index, and one KindStatement Item for
// every other top-level statement so it is never dropped from the bundle.
func BuildItems(mod *module.Module) []*Item {
	exported := make(map[string]bool)
	for _, exp := range mod.Exports {
		for _, n := range exp.Names {
			exported[n] = true
		}
	}

	var items []*Item
	for _, stmt := range mod.Body.Stmts {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			kind := KindFunction
			if s.IsMethod || len(s.Path) > 1 {
				kind = KindMethod
			}
			items = append(items, &Item{
				Module:     mod,
				Name:       s.Path[0],
				Kind:       kind,
				IsExported: exported[s.Path[0]],
				Deps:       ExtractDeps(s),
				Stmt:       s,
			})
		case *ast.LocalDecl:
			deps := ExtractDeps(s)
			for _, name := range s.Names {
				items = append(items, &Item{
					Module:     mod,
					Name:       name,
					Kind:       KindLocal,
					IsExported: exported[name],
					Deps:       deps,
					Stmt:       s,
				})
			}
		case *ast.Assign:
			if name, ok := memberAssignName(s); ok {
				items = append(items, &Item{
					Module:     mod,
					Name:       name,
					Kind:       KindMemberAssign,
					IsExported: exported[name],
					Deps:       ExtractDeps(s),
					Stmt:       s,
				})
			} else {
				items = append(items, statementItem(mod, s))
			}
		default:
			items = append(items, statementItem(mod, stmt))
		}
	}
	return items
}

// statementItem wraps a top-level statement with no declared name of its
// own as a KindStatement Item, so Order still emits it exactly once.
func statementItem(mod *module.Module, stmt ast.Stmt) *Item {
	return &Item{
		Module: mod,
		Kind:   KindStatement,
		Deps:   ExtractDeps(stmt),
		Stmt:   stmt,
	}
}

// BuildAllItems runs BuildItems over every module in g, keyed by module key.
func BuildAllItems(g *module.Graph) map[string][]*Item {
	all := make(map[string][]*Item, len(g.Modules))
	for _, mod := range g.Modules {
		all[mod.Key] = BuildItems(mod)
	}
	return all
}

// memberAssignName recognises `A.b.c = value` (a single, constant-indexed
// Member as the sole LHS) and returns its dotted path as the Item name.
func memberAssignName(a *ast.Assign) (string, bool) {
	if len(a.LHS) != 1 {
		return "", false
	}
	m, ok := a.LHS[0].(*ast.Member)
	if !ok || m.Computed {
		return "", false
	}
	segs, ok := pathSegments(m)
	if !ok {
		return "", false
	}
	return strings.Join(segs, "."), true
}
