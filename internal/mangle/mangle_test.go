package mangle

import "testing"

func TestBuildNoneLeavesNamesUntouched(t *testing.T) {
	plan := Build(None, Names{All: []string{"add", "subtract"}})
	if len(plan) != 0 {
		t.Errorf("expected an empty plan under Mode None, got %v", plan)
	}
	if plan.Apply("add") != "add" {
		t.Errorf("Apply should be a no-op under Mode None")
	}
}

func TestBuildAllMangleEveryName(t *testing.T) {
	plan := Build(All, Names{All: []string{"add", "subtract", "multiply"}})
	seen := make(map[string]bool)
	for _, name := range []string{"add", "subtract", "multiply"} {
		short := plan.Apply(name)
		if short == name {
			t.Errorf("%q was not mangled", name)
		}
		if seen[short] {
			t.Errorf("duplicate mangled name %q", short)
		}
		seen[short] = true
	}
}

func TestBuildAutoLeavesKeepNamesUnmangled(t *testing.T) {
	plan := Build(Auto, Names{
		All:  []string{"main_entry", "helper"},
		Keep: map[string]bool{"main_entry": true},
	})
	if plan.Apply("main_entry") != "main_entry" {
		t.Errorf("kept name should survive Auto mode untouched, got %q", plan.Apply("main_entry"))
	}
	if plan.Apply("helper") == "helper" {
		t.Errorf("non-kept name should be mangled under Auto mode")
	}
}

func TestMangledNamesNeverCollideWithKeywords(t *testing.T) {
	// Past the first 52 single-letter outputs the generator starts
	// producing two-letter codes, which is where "do", "if", "in", "or"
	// would otherwise turn up; push far enough that all four come up
	// ("or", the last of them, is generator index 797).
	all := make([]string, 800)
	for i := range all {
		all[i] = "orig_" + string(rune('A'+i%26)) + string(rune('a'+i/26))
	}
	plan := Build(All, Names{All: all})
	if len(plan) != len(all) {
		t.Fatalf("got %d mangled names, want %d", len(plan), len(all))
	}
	for _, v := range plan {
		if reserved[v] {
			t.Errorf("mangled name %q collides with a keyword", v)
		}
	}
}
