package module

import "testing"

func fakeFS(files map[string]string) func(string) ([]byte, bool) {
	return func(p string) ([]byte, bool) {
		if src, ok := files[p]; ok {
			return []byte(src), true
		}
		return nil, false
	}
}

func TestResolveRelativeSpecifier(t *testing.T) {
	open := fakeFS(map[string]string{"src/util.lua": "return {}"})
	r := NewResolver("src", DefaultExtensions, open)

	got, err := r.Resolve("./util", "src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "src/util.lua" {
		t.Errorf("got Key %q, want %q", got.Key, "src/util.lua")
	}
}

func TestResolveRootAnchoredSpecifier(t *testing.T) {
	open := fakeFS(map[string]string{"lib/math.lua": "return {}"})
	r := NewResolver("", DefaultExtensions, open)

	got, err := r.Resolve("@/lib/math", "deep/nested")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "lib/math.lua" {
		t.Errorf("got Key %q, want %q", got.Key, "lib/math.lua")
	}
}

func TestResolveSecondaryExtension(t *testing.T) {
	open := fakeFS(map[string]string{"src/widget.luau": "return {}"})
	r := NewResolver("src", DefaultExtensions, open)

	got, err := r.Resolve("./widget", "src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "src/widget.luau" {
		t.Errorf("got Key %q, want %q", got.Key, "src/widget.luau")
	}
}

func TestResolveDirectoryInit(t *testing.T) {
	open := fakeFS(map[string]string{"src/pkg/init.lua": "return {}"})
	r := NewResolver("src", DefaultExtensions, open)

	got, err := r.Resolve("./pkg", "src")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Key != "src/pkg/init.lua" {
		t.Errorf("got Key %q, want %q", got.Key, "src/pkg/init.lua")
	}
}

func TestResolveUnresolvedImport(t *testing.T) {
	r := NewResolver("src", DefaultExtensions, fakeFS(nil))
	_, err := r.Resolve("./missing", "src")
	if err == nil {
		t.Errorf("expected an error for an unresolvable specifier")
	}
}

func TestNormalizeCollapsesBackslashesAndDotSegments(t *testing.T) {
	got := Normalize(`a\b\..\c`)
	want := "a/c"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
