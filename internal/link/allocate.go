package link

import (
	"fmt"

	"github.com/nostopgmaming17/luabundle/internal/errors"
	"github.com/nostopgmaming17/luabundle/internal/module"
)

// MaxCascadeIterations bounds the conflict-cascade loop of Allocate. It is
// a defensive limit, not a behaviour real input should ever approach: each
// iteration strictly grows a suffix counter, so convergence happens fast
// for any sane number of colliding modules.
const MaxCascadeIterations = 64

// Item is one top-level declaration a module contributes to the bundle,
// the unit C4–C6 operate over (spec §3 Item).
type Item struct {
	Module     *module.Module
	Name       string // the name as declared in source; empty for KindStatement
	Kind       string // "function", "method", "local", "member_assignment", "statement"
	IsExported bool
	Deps       Deps
	Stmt       interface{} // the originating ast.Stmt, opaque to this package
}

// Plan is the output of Allocate: for every module, a map from its
// original declared name to the globally unique name it must be rewritten
// to, plus an alias_map covering imported-binding renames.
type Plan struct {
	// GlobalRename maps "moduleKey\x00originalName" to the unique global
	// name assigned to that module-local declaration.
	GlobalRename map[string]string
	// AliasMap maps "moduleKey\x00localAliasName" (an import binding) to
	// the global name of the exporting module's declaration.
	AliasMap map[string]string
	// Order is the priority-ordered list of unique names assigned, for
	// diagnostics/tests.
	Order []string
}

func keyOf(moduleKey, name string) string { return moduleKey + "\x00" + name }

// declaration is one candidate for a global name: a module-local top-level
// name together with the priority class it was declared with.
type declaration struct {
	mod      *module.Module
	name     string
	priority int // lower allocates first, spec §4.4 priority rules 1-4
}

// Allocate assigns every module's top-level declarations a single globally
// unique name, then resolves every import binding to an alias of the
// exporting declaration's chosen name (spec §4.4).
//
// Priority rules (spec §4.4, implemented via the priority field):
//  1. the entry module's own top-level names keep their original spelling
//     whenever possible (priority 0)
//  2. names a module exports come next (priority 1) ...
//  3. ... unless the conflict-cascade rule below forces that export to
//     give up its spelling to an unrelated module's own local, in which
//     case it drops to priority 3, after every ordinary local (priority 2)
//  4. ties within a class are broken by FileSeq, then declaration order
//
// Conflict-cascade rule (spec §4.4, essential): a module that never
// imports a given export still has every right to its own, unrelated
// top-level name spelled the same way. forcedRename walks every item's
// Deps (plus its own declared name) looking for a name that collides with
// another module's export the owning module does not import under that
// name; any such export is marked so its priority drops below ordinary
// locals, guaranteeing the export is the one that cascades to name_2, not
// the innocent local.
func Allocate(g *module.Graph, items map[string][]*Item) (*Plan, error) {
	var decls []declaration
	exported := make(map[string]map[string]bool) // moduleKey -> exported name set

	for _, mod := range g.Modules {
		exported[mod.Key] = make(map[string]bool)
		for _, exp := range mod.Exports {
			for _, n := range exp.Names {
				exported[mod.Key][n] = true
			}
		}
	}

	forcedRename := exportsNeedingRename(g, items, exported)

	for _, mod := range g.Modules {
		for _, it := range items[mod.Key] {
			if it.Kind == KindStatement {
				continue
			}
			priority := 2
			switch {
			case mod.IsEntry:
				priority = 0
			case exported[mod.Key][it.Name] && forcedRename[keyOf(mod.Key, it.Name)]:
				priority = 3
			case exported[mod.Key][it.Name]:
				priority = 1
			}
			decls = append(decls, declaration{mod: mod, name: it.Name, priority: priority})
		}
	}

	sortDecls(decls)

	plan := &Plan{GlobalRename: make(map[string]string), AliasMap: make(map[string]string)}
	taken := make(map[string]bool)

	for _, d := range decls {
		unique, err := allocateName(d.name, taken)
		if err != nil {
			return nil, err
		}
		taken[unique] = true
		plan.GlobalRename[keyOf(d.mod.Key, d.name)] = unique
		plan.Order = append(plan.Order, unique)
	}

	// Resolve every import binding to the exporting module's chosen name.
	for _, mod := range g.Modules {
		for _, imp := range mod.Imports {
			target, ok := g.Lookup(imp.ResolvedKey)
			if !ok {
				continue // already fatal at graph-build time; defensive only
			}
			for _, b := range imp.Bindings {
				global, ok := plan.GlobalRename[keyOf(target.Key, b.Name)]
				if !ok || !exported[target.Key][b.Name] {
					return nil, fmt.Errorf("%s: import binding %q has no matching export in %s", mod.Key, b.Name, target.Key)
				}
				plan.AliasMap[keyOf(mod.Key, b.Alias)] = global
			}
		}
	}

	return plan, nil
}

// exportsNeedingRename implements spec §4.4's conflict-cascade rule: it
// returns the set of (moduleKey, exportName) pairs whose export must give
// up its plain spelling because some other module, which does not import
// that export under that name, declares or references the same name in
// its own right.
func exportsNeedingRename(g *module.Graph, items map[string][]*Item, exported map[string]map[string]bool) map[string]bool {
	importsFrom := make(map[string]map[string]bool) // moduleKey -> locally bound alias names
	for _, mod := range g.Modules {
		importsFrom[mod.Key] = make(map[string]bool)
		for _, imp := range mod.Imports {
			for _, b := range imp.Bindings {
				importsFrom[mod.Key][b.Alias] = true
			}
		}
	}

	forced := make(map[string]bool)
	for _, mod := range g.Modules {
		seen := make(map[string]bool)
		for _, it := range items[mod.Key] {
			if it.Kind != KindStatement {
				seen[it.Name] = true
			}
			for dep := range it.Deps {
				seen[dep] = true
			}
		}
		for name := range seen {
			if importsFrom[mod.Key][name] {
				continue // legitimately bound via this module's own import
			}
			for _, other := range g.Modules {
				if other.Key == mod.Key {
					continue
				}
				if exported[other.Key][name] {
					forced[keyOf(other.Key, name)] = true
				}
			}
		}
	}
	return forced
}

// allocateName finds a name derived from base that is not in taken,
// applying the conflict-cascade rule of spec §4.4: try base, then
// base_2, base_3, ... until free or MaxCascadeIterations is exceeded.
func allocateName(base string, taken map[string]bool) (string, error) {
	if !taken[base] {
		return base, nil
	}
	for i := 2; i <= MaxCascadeIterations; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !taken[candidate] {
			return candidate, nil
		}
	}
	return "", errors.NameExhaustion(base)
}

// sortDecls orders by (priority, FileSeq, declaration order) in place,
// implementing spec §4.4's tie-break rules with a simple insertion sort
// (declaration counts per bundle are small; stability matters more than
// asymptotic cost here).
func sortDecls(decls []declaration) {
	for i := 1; i < len(decls); i++ {
		j := i
		for j > 0 && less(decls[j], decls[j-1]) {
			decls[j], decls[j-1] = decls[j-1], decls[j]
			j--
		}
	}
}

func less(a, b declaration) bool {
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.mod.FileSeq < b.mod.FileSeq
}
