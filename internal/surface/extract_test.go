package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImport(t *testing.T) {
	src := `import foo, bar as baz from "./util"
local x = foo(baz)`

	res, err := Extract(src)
	require.NoError(t, err)
	require.Len(t, res.Imports, 1)

	imp := res.Imports[0]
	assert.Equal(t, "./util", imp.Source)
	assert.Equal(t, []Binding{{Name: "foo", Alias: "foo"}, {Name: "bar", Alias: "baz"}}, imp.Bindings)
	assert.Equal(t, "\nlocal x = foo(baz)", res.CleanedSrc)
}

func TestExtractExportLocalFunction(t *testing.T) {
	res, err := Extract(`export local function add(a, b)
  return a + b
end`)
	require.NoError(t, err)
	require.Len(t, res.Exports, 1)
	assert.Equal(t, []string{"add"}, res.Exports[0].Names)
	assert.Contains(t, res.CleanedSrc, "local function add(a, b)")
	assert.NotContains(t, res.CleanedSrc, "export")
}

func TestExtractExportLocalVars(t *testing.T) {
	res, err := Extract(`export local x, y = 1, 2`)
	require.NoError(t, err)
	require.Len(t, res.Exports, 1)
	assert.Equal(t, []string{"x", "y"}, res.Exports[0].Names)
	assert.Equal(t, "local x, y = 1, 2", strings.TrimSpace(res.CleanedSrc))
}

func TestExtractBareExportIsSyntaxError(t *testing.T) {
	_, err := Extract(`export x = 1`)
	assert.Error(t, err)
}

func TestExtractMalformedBindingIsError(t *testing.T) {
	_, err := Extract(`import foo bar from "./util"`)
	assert.Error(t, err)
}

func TestExtractPreservesLineNumbers(t *testing.T) {
	src := "local a = 1\nimport b from \"./b\"\nlocal c = b"
	res, err := Extract(src)
	require.NoError(t, err)
	require.Len(t, res.Imports, 1)
	assert.Equal(t, 2, res.Imports[0].Line)
}
