package link

import (
	"testing"

	"github.com/nostopgmaming17/luabundle/internal/module"
)

func buildGraph(t *testing.T, files map[string]string, entry string) (*module.Graph, map[string][]*Item) {
	t.Helper()
	open := func(p string) ([]byte, bool) {
		src, ok := files[p]
		return []byte(src), ok
	}
	g, err := module.Build(entry, nil, open, module.Extensions{})
	if err != nil {
		t.Fatalf("unexpected error building graph: %v", err)
	}
	return g, BuildAllItems(g)
}

func TestAllocateKeepsEntryNamesWhenPossible(t *testing.T) {
	g, items := buildGraph(t, map[string]string{
		"main.lua": `local function add() end`,
	}, "main.lua")

	plan, err := Allocate(g, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.GlobalRename[keyOf("main.lua", "add")]; got != "add" {
		t.Errorf("got %q, want %q", got, "add")
	}
}

func TestAllocateConflictCascadesOnCollision(t *testing.T) {
	g, items := buildGraph(t, map[string]string{
		"main.lua": `import add from "./a"
local function add() end`,
		"a.lua": `export local function add() end`,
	}, "main.lua")

	plan, err := Allocate(g, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entryName := plan.GlobalRename[keyOf("main.lua", "add")]
	libName := plan.GlobalRename[keyOf("a.lua", "add")]
	if entryName == libName {
		t.Fatalf("expected distinct global names, both got %q", entryName)
	}
	// Entry module keeps its original spelling; the colliding library
	// declaration is the one that gets cascaded.
	if entryName != "add" {
		t.Errorf("entry module's add should keep its name, got %q", entryName)
	}
	if libName != "add_2" {
		t.Errorf("colliding library add should cascade to add_2, got %q", libName)
	}
}

func TestAllocateRenamesUnimportedExportInsteadOfUnrelatedLocal(t *testing.T) {
	g, items := buildGraph(t, map[string]string{
		"main.lua": `import other from "./a"
import helper from "./b"
local y = other()
local z = helper()`,
		"a.lua": `export local function other() end
export local config = {}`,
		// b.lua never imports a.lua; its own "config" local is completely
		// unrelated to a.lua's export of the same name.
		"b.lua": `export local function helper() end
local config = {}`,
	}, "main.lua")

	plan, err := Allocate(g, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bConfig := plan.GlobalRename[keyOf("b.lua", "config")]
	aConfig := plan.GlobalRename[keyOf("a.lua", "config")]

	if bConfig != "config" {
		t.Errorf("b.lua's own unrelated local should keep its spelling, got %q", bConfig)
	}
	if aConfig != "config_2" {
		t.Errorf("a.lua's export should be the one that cascades, got %q", aConfig)
	}
}

func TestAllocateResolvesAliasMap(t *testing.T) {
	g, items := buildGraph(t, map[string]string{
		"main.lua": `import add as plus from "./a"
local x = plus(1, 2)`,
		"a.lua": `export local function add() end`,
	}, "main.lua")

	plan, err := Allocate(g, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	libName := plan.GlobalRename[keyOf("a.lua", "add")]
	aliasTarget := plan.AliasMap[keyOf("main.lua", "plus")]
	if aliasTarget != libName {
		t.Errorf("got alias target %q, want %q", aliasTarget, libName)
	}
}

func TestBuildItemsMarksExportedLocal(t *testing.T) {
	g, items := buildGraph(t, map[string]string{
		"a.lua": "export local shared = 1",
	}, "a.lua")
	mod, ok := g.Lookup("a.lua")
	if !ok {
		t.Fatalf("module a.lua not found")
	}
	found := false
	for _, it := range items[mod.Key] {
		if it.Name == "shared" {
			found = true
			if !it.IsExported {
				t.Errorf("shared should be marked exported")
			}
		}
	}
	if !found {
		t.Fatalf("expected an Item named shared, got %+v", items[mod.Key])
	}
}
