package link

import (
	"testing"

	"github.com/nostopgmaming17/luabundle/internal/parser"
)

func deps(t *testing.T, src string) Deps {
	t.Helper()
	block, err := parser.Parse(src, "t.lua")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	d := Deps{}
	for _, s := range block.Stmts {
		walkStmt(s, d)
	}
	return d
}

func TestExtractDepsSimpleCall(t *testing.T) {
	d := deps(t, `local x = add(a, b)`)
	for _, want := range []string{"add", "a", "b"} {
		if !d[want] {
			t.Errorf("missing dependency %q in %v", want, d)
		}
	}
}

func TestExtractDepsDottedPath(t *testing.T) {
	d := deps(t, `local x = utils.math.add(1, 2)`)
	if !d["utils.math.add"] {
		t.Errorf("missing dotted path dependency, got %v", d)
	}
	if !d["utils"] {
		t.Errorf("missing base identifier dependency, got %v", d)
	}
}

func TestExtractDepsMethodCall(t *testing.T) {
	d := deps(t, `obj:greet(name)`)
	if !d["obj"] {
		t.Errorf("missing base identifier, got %v", d)
	}
	if !d["obj.greet"] {
		t.Errorf("missing method dotted path, got %v", d)
	}
}

func TestExtractDepsComputedIndexHasNoDottedPath(t *testing.T) {
	d := deps(t, `local x = t[k]`)
	if !d["t"] || !d["k"] {
		t.Errorf("expected base and index identifiers, got %v", d)
	}
	for name := range d {
		if name == "t.k" {
			t.Errorf("computed index must not contribute a dotted path")
		}
	}
}

func TestExtractDepsFunctionDeclPath(t *testing.T) {
	d := deps(t, `function T.new()
  return setmetatable({}, T)
end`)
	if !d["T"] || !d["T.new"] {
		t.Errorf("expected T and T.new in deps, got %v", d)
	}
	if !d["setmetatable"] {
		t.Errorf("expected setmetatable in deps, got %v", d)
	}
}
