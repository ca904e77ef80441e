// Package module implements the Path Resolver (C1) and Module Graph
// Builder (C2) of the link-and-flatten core: spec §4.1 and §4.2.
package module

import (
	"os"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nostopgmaming17/luabundle/internal/errors"
)

// Extensions lists the candidate file extensions tried by the resolver, in
// order. Two distinct dialects are accepted (spec §4.1): ".lua" and the
// Luau dialect ".luau".
type Extensions struct {
	Primary   string
	Secondary string
}

// DefaultExtensions is used when no bundler.yaml overrides it.
var DefaultExtensions = Extensions{Primary: ".lua", Secondary: ".luau"}

// Resolver maps an import specifier to a canonical module key and backing
// file path.
type Resolver struct {
	root        string // entry directory, for "@/..." specifiers
	extensions  Extensions
	searchPaths []string // extra roots checked for bare specifiers, LUABUNDLE_PATH
	open        func(path string) ([]byte, bool)
}

// NewResolver creates a Resolver rooted at root (the entry file's
// directory). open reads a candidate path, returning (nil, false) if it
// does not exist — this is the §6 "File-system contract".
func NewResolver(root string, ext Extensions, open func(string) ([]byte, bool)) *Resolver {
	return &Resolver{
		root:        root,
		extensions:  ext,
		searchPaths: searchPathsFromEnv(),
		open:        open,
	}
}

func searchPathsFromEnv() []string {
	v := os.Getenv("LUABUNDLE_PATH")
	if v == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(v, string(os.PathListSeparator)) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// Resolved is the outcome of a successful resolution.
type Resolved struct {
	Key  string // canonical module key
	Path string // candidate file path that was actually found
	Src  []byte
}

// Resolve maps specifier s, imported from a module whose canonical
// directory is importerDir, to a Resolved module. It implements the
// resolution rules and candidate-file list of spec §4.1.
func (r *Resolver) Resolve(s, importerDir string) (Resolved, error) {
	base := r.baseDir(s, importerDir)
	p := Normalize(path.Join(base, r.stripPrefix(s)))

	for _, candidate := range r.candidates(p) {
		if src, ok := r.open(candidate); ok {
			return Resolved{Key: candidate, Path: candidate, Src: src}, nil
		}
	}

	// Bare/relative specifiers that aren't found relative to the importer
	// also get a chance against each configured search path (an extension
	// beyond spec §4.1, documented in SPEC_FULL.md).
	if !strings.HasPrefix(s, "./") && !strings.HasPrefix(s, "../") && !strings.HasPrefix(s, "@/") {
		for _, sp := range r.searchPaths {
			p := Normalize(path.Join(sp, s))
			for _, candidate := range r.candidates(p) {
				if src, ok := r.open(candidate); ok {
					return Resolved{Key: candidate, Path: candidate, Src: src}, nil
				}
			}
		}
	}

	return Resolved{}, errors.UnresolvedImport(s, importerDir)
}

func (r *Resolver) baseDir(s, importerDir string) string {
	switch {
	case strings.HasPrefix(s, "@/"):
		return r.root
	case strings.HasPrefix(s, "./"), strings.HasPrefix(s, "../"):
		return importerDir
	default:
		return importerDir
	}
}

func (r *Resolver) stripPrefix(s string) string {
	switch {
	case strings.HasPrefix(s, "@/"):
		return strings.TrimPrefix(s, "@/")
	case strings.HasPrefix(s, "./"):
		return strings.TrimPrefix(s, "./")
	default:
		return s
	}
}

// candidates builds the fixed candidate-file list of spec §4.1:
// p, p+primary, p+secondary, p/init.primary, p/init.secondary.
func (r *Resolver) candidates(p string) []string {
	return []string{
		p,
		p + r.extensions.Primary,
		p + r.extensions.Secondary,
		path.Join(p, "init"+r.extensions.Primary),
		path.Join(p, "init"+r.extensions.Secondary),
	}
}

// Normalize canonicalises a path per spec §4.1: backslashes to forward
// slashes, doubled separators collapsed, `.`/`..` segments cancelled, and
// (as a domain-stack addition) Unicode NFC-normalised so that
// differently-encoded but visually identical specifiers collapse to the
// same module key.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if !norm.NFC.IsNormalString(p) {
		p = norm.NFC.String(p)
	}
	cleaned := path.Clean(p)
	if cleaned == "." {
		return ""
	}
	return cleaned
}
