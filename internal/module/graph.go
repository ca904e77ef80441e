package module

import (
	"os"
	"path"
	"strings"

	"github.com/nostopgmaming17/luabundle/internal/ast"
	"github.com/nostopgmaming17/luabundle/internal/errors"
	"github.com/nostopgmaming17/luabundle/internal/parser"
	"github.com/nostopgmaming17/luabundle/internal/surface"
)

// ImportDecl is a module's own view of one `import` declaration: the
// specifier plus the bindings it introduces (spec §3 ImportDecl).
type ImportDecl struct {
	SourceSpecifier string
	Bindings        []surface.Binding
	ResolvedKey     string // canonical key of the module this import resolved to
}

// ExportDecl is a module's own view of one `export` declaration: the set
// of top-level identifiers it publishes (spec §3 ExportDecl).
type ExportDecl struct {
	Names []string
}

// Module is one discovered, parsed source file (spec §3 Module).
type Module struct {
	Key         string // canonical module key, primary identifier
	DisplayName string // basename, used as a prefix in synthetic ids
	Directory   string // canonical directory, used to resolve relative imports
	Imports     []ImportDecl
	Exports     []ExportDecl
	Body        *ast.Block
	IsEntry     bool
	FileSeq     int
}

// Graph is the ordered set of modules discovered from an entry point
// (spec §3 "modules" list plus the discovery-order FileSeq).
type Graph struct {
	Modules []*Module
	byKey   map[string]*Module
}

// Lookup returns the module registered under key, if any.
func (g *Graph) Lookup(key string) (*Module, bool) {
	m, ok := g.byKey[key]
	return m, ok
}

// DefineMap is the textual substitution table applied before parsing
// (spec §6 `define`).
type DefineMap map[string]string

// ReadFile is the §6 "File-system contract": returns (src, true) if path
// exists, or (nil, false) if absent.
type ReadFile func(path string) ([]byte, bool)

// OSReadFile is the default ReadFile backed by the real filesystem.
func OSReadFile(p string) ([]byte, bool) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Build discovers the full module graph by depth-first traversal from
// entryPath (spec §4.2). define is applied to every module's raw source
// before extraction/parsing. A zero-value Extensions uses DefaultExtensions.
func Build(entryPath string, define DefineMap, read ReadFile, ext Extensions) (*Graph, error) {
	entryPath = Normalize(entryPath)
	root := path.Dir(entryPath)

	if ext == (Extensions{}) {
		ext = DefaultExtensions
	}

	g := &Graph{byKey: make(map[string]*Module)}
	resolver := NewResolver(root, ext, read)

	var discover func(key, filePath string, isEntry bool) error
	visited := make(map[string]bool)

	discover = func(key, filePath string, isEntry bool) error {
		if visited[key] {
			return nil
		}
		visited[key] = true

		raw, ok := read(filePath)
		if !ok {
			return errors.ReadFailure(filePath, errNotFound(filePath))
		}

		src := stripShebang(string(raw))
		src = applyDefines(src, define)

		extracted, err := surface.Extract(src)
		if err != nil {
			return errors.ExtractError(filePath, err)
		}

		body, err := parser.Parse(extracted.CleanedSrc, filePath)
		if err != nil {
			return errors.ParseError(filePath, err)
		}

		mod := &Module{
			Key:         key,
			DisplayName: displayName(filePath, ext),
			Directory:   path.Dir(filePath),
			Body:        body,
			IsEntry:     isEntry,
		}
		for _, imp := range extracted.Imports {
			mod.Imports = append(mod.Imports, ImportDecl{SourceSpecifier: imp.Source, Bindings: imp.Bindings})
		}
		for _, exp := range extracted.Exports {
			mod.Exports = append(mod.Exports, ExportDecl{Names: exp.Names})
		}

		g.Modules = append(g.Modules, mod)
		mod.FileSeq = len(g.Modules)
		g.byKey[key] = mod

		for i := range mod.Imports {
			imp := &mod.Imports[i]
			resolved, err := resolver.Resolve(imp.SourceSpecifier, mod.Directory)
			if err != nil {
				return err
			}
			imp.ResolvedKey = resolved.Key
			if err := discover(resolved.Key, resolved.Path, false); err != nil {
				return err
			}
		}
		return nil
	}

	if err := discover(entryPath, entryPath, true); err != nil {
		return nil, err
	}
	return g, nil
}

func displayName(filePath string, ext Extensions) string {
	base := path.Base(filePath)
	base = strings.TrimSuffix(base, ext.Primary)
	base = strings.TrimSuffix(base, ext.Secondary)
	return base
}

func stripShebang(src string) string {
	if strings.HasPrefix(src, "#!") {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			return src[i+1:]
		}
		return ""
	}
	return src
}

func applyDefines(src string, define DefineMap) string {
	for name, replacement := range define {
		src = strings.ReplaceAll(src, name, replacement)
	}
	return src
}

type notFoundError struct{ path string }

func (e *notFoundError) Error() string { return "file not found: " + e.path }

func errNotFound(p string) error { return &notFoundError{path: p} }
