package link

import (
	"testing"

	"github.com/nostopgmaming17/luabundle/internal/ast"
	"github.com/nostopgmaming17/luabundle/internal/parser"
)

func TestRewriterAppliesGlobalRename(t *testing.T) {
	block, err := parser.Parse(`local function add(a, b)
  return a + b
end
local r = add(1, 2)`, "a.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	plan := &Plan{
		GlobalRename: map[string]string{keyOf("a.lua", "add"): "add_2"},
		AliasMap:     map[string]string{},
	}
	rw := NewRewriter("a.lua", plan, []string{"add"})
	rw.RewriteBlock(block)

	decl := block.Stmts[0].(*ast.FuncDecl)
	if decl.Path[0] != "add_2" {
		t.Errorf("got %q, want %q", decl.Path[0], "add_2")
	}
	call := block.Stmts[1].(*ast.LocalDecl).Exprs[0].(*ast.Call)
	if call.Func.(*ast.Ident).Name != "add_2" {
		t.Errorf("got %q, want %q", call.Func.(*ast.Ident).Name, "add_2")
	}
}

func TestRewriterAppliesAliasBeforeGlobalRename(t *testing.T) {
	block, err := parser.Parse(`local r = plus(1, 2)`, "main.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan := &Plan{
		GlobalRename: map[string]string{keyOf("main.lua", "plus"): "plus_2"},
		AliasMap:     map[string]string{keyOf("main.lua", "plus"): "add"},
	}
	rw := NewRewriter("main.lua", plan, []string{"plus"})
	rw.RewriteBlock(block)

	call := block.Stmts[0].(*ast.LocalDecl).Exprs[0].(*ast.Call)
	if call.Func.(*ast.Ident).Name != "add" {
		t.Errorf("got %q, want %q", call.Func.(*ast.Ident).Name, "add")
	}
}

func TestRewriterNeverRenamesNestedFunctionParams(t *testing.T) {
	block, err := parser.Parse(`local function outer(x)
  return x
end`, "a.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plan := &Plan{
		GlobalRename: map[string]string{keyOf("a.lua", "x"): "should_not_apply"},
		AliasMap:     map[string]string{},
	}
	rw := NewRewriter("a.lua", plan, []string{"outer"})
	rw.RewriteBlock(block)

	decl := block.Stmts[0].(*ast.FuncDecl)
	ret := decl.Fn.Body.Stmts[0].(*ast.Return)
	if ret.Exprs[0].(*ast.Ident).Name != "x" {
		t.Errorf("parameter reference should be untouched, got %q", ret.Exprs[0].(*ast.Ident).Name)
	}
}
