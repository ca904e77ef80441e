package module

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDiscoversImportGraphDepthFirst(t *testing.T) {
	files := map[string]string{
		"main.lua": `import add from "./math"
local x = add(1, 2)`,
		"math.lua": `export local function add(a, b)
  return a + b
end`,
	}
	g, err := Build("main.lua", nil, fakeFS(files), Extensions{})
	require.NoError(t, err)
	require.Len(t, g.Modules, 2)

	entry := g.Modules[0]
	require.True(t, entry.IsEntry)
	require.Equal(t, 1, entry.FileSeq)

	math, ok := g.Lookup("math.lua")
	require.True(t, ok)
	require.False(t, math.IsEntry)
	require.Len(t, math.Exports, 1)
	require.Equal(t, []string{"add"}, math.Exports[0].Names)
}

func TestBuildAppliesDefinesBeforeParsing(t *testing.T) {
	files := map[string]string{"main.lua": "local x = BUILD_VERSION"}
	g, err := Build("main.lua", DefineMap{"BUILD_VERSION": `"1.0"`}, fakeFS(files), Extensions{})
	require.NoError(t, err)
	require.Len(t, g.Modules, 1)
}

func TestBuildStripsShebang(t *testing.T) {
	files := map[string]string{"main.lua": "#!/usr/bin/env lua\nlocal x = 1"}
	g, err := Build("main.lua", nil, fakeFS(files), Extensions{})
	require.NoError(t, err)
	require.Len(t, g.Modules[0].Body.Stmts, 1)
}

func TestBuildUnresolvedImportIsFatal(t *testing.T) {
	files := map[string]string{"main.lua": `import x from "./missing"`}
	_, err := Build("main.lua", nil, fakeFS(files), Extensions{})
	require.Error(t, err)
}

func TestBuildRejectsBareExport(t *testing.T) {
	files := map[string]string{"main.lua": "export x = 1"}
	_, err := Build("main.lua", nil, fakeFS(files), Extensions{})
	require.Error(t, err)
}
