package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nostopgmaming17/luabundle/internal/ast"
)

var ignorePos = cmpopts.IgnoreFields(ast.Pos{}, "File", "Line", "Column")

func TestParseLocalDecl(t *testing.T) {
	block, err := Parse(`local x, y = 1, 2`, "t.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &ast.Block{Stmts: []ast.Stmt{
		&ast.LocalDecl{
			Names: []string{"x", "y"},
			Exprs: []ast.Expr{
				&ast.Literal{Kind: ast.LitNumber, Value: "1"},
				&ast.Literal{Kind: ast.LitNumber, Value: "2"},
			},
		},
	}}
	if diff := cmp.Diff(want, block, ignorePos); diff != "" {
		t.Errorf("unexpected AST (-want +got):\n%s", diff)
	}
}

func TestParseMethodDecl(t *testing.T) {
	block, err := Parse(`function T:greet(name) return name end`, "t.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl, ok := block.Stmts[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.FuncDecl", block.Stmts[0])
	}
	if !decl.IsMethod {
		t.Errorf("IsMethod = false, want true")
	}
	want := []string{"T", "greet"}
	if diff := cmp.Diff(want, decl.Path); diff != "" {
		t.Errorf("unexpected Path (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"self", "name"}, decl.Fn.Params); diff != "" {
		t.Errorf("unexpected Params (-want +got):\n%s", diff)
	}
}

func TestParseMemberAssignment(t *testing.T) {
	block, err := Parse(`T.x = 5`, "t.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assign, ok := block.Stmts[0].(*ast.Assign)
	if !ok {
		t.Fatalf("got %T, want *ast.Assign", block.Stmts[0])
	}
	member, ok := assign.LHS[0].(*ast.Member)
	if !ok {
		t.Fatalf("got %T, want *ast.Member", assign.LHS[0])
	}
	if member.NameIndex != "x" || member.Computed {
		t.Errorf("got NameIndex=%q Computed=%v, want NameIndex=%q Computed=false", member.NameIndex, member.Computed, "x")
	}
}

func TestParseComputedIndexVsConstantIndex(t *testing.T) {
	block, err := Parse(`local a = t["key"]
local b = t[k]`, "t.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := block.Stmts[0].(*ast.LocalDecl).Exprs[0].(*ast.Member)
	if first.Computed || first.NameIndex != "key" {
		t.Errorf("constant string index should not be Computed; got Computed=%v NameIndex=%q", first.Computed, first.NameIndex)
	}
	second := block.Stmts[1].(*ast.LocalDecl).Exprs[0].(*ast.Member)
	if !second.Computed {
		t.Errorf("variable index should be Computed")
	}
}

func TestParseNumericAndGenericFor(t *testing.T) {
	block, err := Parse(`for i = 1, 10, 2 do end
for k, v in pairs(t) do end`, "t.lua")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := block.Stmts[0].(*ast.NumericFor); !ok {
		t.Errorf("stmt 0: got %T, want *ast.NumericFor", block.Stmts[0])
	}
	gf, ok := block.Stmts[1].(*ast.GenericFor)
	if !ok {
		t.Fatalf("stmt 1: got %T, want *ast.GenericFor", block.Stmts[1])
	}
	if diff := cmp.Diff([]string{"k", "v"}, gf.Names); diff != "" {
		t.Errorf("unexpected Names (-want +got):\n%s", diff)
	}
}

func TestParseRejectsBareExpressionStatement(t *testing.T) {
	_, err := Parse(`1 + 1`, "t.lua")
	if err == nil {
		t.Errorf("expected an error for a non-call expression statement")
	}
}
