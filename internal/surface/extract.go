// Package surface implements the import/export extractor named in spec §6:
// a line-by-line, regex-based pass that recognises the `import`/`export` surface syntax,
// strips it out, and reports the declarations it found. It runs before the
// base-language parser, on raw (but `define`-substituted) source text, and
// never builds an AST of its own.
package surface

import (
	"fmt"
	"regexp"
	"strings"
)

// Binding is one `NAME [as ALIAS]` entry of an import list.
type Binding struct {
	Name  string
	Alias string // equals Name when no `as` clause is present
}

// Import is one `import ... from "..."` declaration.
type Import struct {
	Bindings []Binding
	Source   string
	Line     int
}

// Export is one `export local ...` declaration; Names is always non-empty
// and always accompanies a local declaration in the cleaned source (spec §3).
type Export struct {
	Names []string
	Line  int
}

// Result is the output of Extract.
type Result struct {
	Imports    []Import
	Exports    []Export
	CleanedSrc string
}

var (
	importRe = regexp.MustCompile(`(?m)^[ \t]*import[ \t]+([^\n]+?)[ \t]+from[ \t]+"([^"]*)"[ \t]*$`)
	// exportFuncRe matches `export local function NAME(` so the `export`
	// keyword can be stripped while leaving `local function NAME(` intact.
	exportFuncRe = regexp.MustCompile(`(?m)^([ \t]*)export([ \t]+local[ \t]+function[ \t]+(\w+))`)
	// exportLocalRe matches `export local NAME {, NAME} [=]`.
	exportLocalRe = regexp.MustCompile(`(?m)^([ \t]*)export([ \t]+local[ \t]+)([A-Za-z_][A-Za-z0-9_]*(?:[ \t]*,[ \t]*[A-Za-z_][A-Za-z0-9_]*)*)`)
	bareExportRe  = regexp.MustCompile(`(?m)^[ \t]*export\b`)
)

// Extract recognises and strips the import/export surface syntax from src,
// returning the declarations found and the cleaned base-language source.
func Extract(src string) (Result, error) {
	var res Result

	for i, line := range strings.Split(src, "\n") {
		if bareExportRe.MatchString(line) && !exportLocalRe.MatchString(line) {
			return res, fmt.Errorf("line %d: exports without 'local' are not supported", i+1)
		}
	}

	lines := strings.Split(src, "\n")
	var out []string
	for i, line := range lines {
		lineNo := i + 1

		if m := importRe.FindStringSubmatch(line); m != nil {
			bindings, err := parseBindingList(m[1])
			if err != nil {
				return res, fmt.Errorf("line %d: %w", lineNo, err)
			}
			res.Imports = append(res.Imports, Import{Bindings: bindings, Source: m[2], Line: lineNo})
			out = append(out, "") // preserve line numbering in cleaned_src
			continue
		}

		if m := exportFuncRe.FindStringSubmatch(line); m != nil {
			res.Exports = append(res.Exports, Export{Names: []string{m[3]}, Line: lineNo})
			// Strip the leading "export " keyword, keeping "local function NAME(...".
			out = append(out, exportFuncRe.ReplaceAllString(line, "$1${2}"))
			continue
		}

		if m := exportLocalRe.FindStringSubmatch(line); m != nil {
			names := splitNames(m[3])
			res.Exports = append(res.Exports, Export{Names: names, Line: lineNo})
			cleaned := exportLocalRe.ReplaceAllString(line, "$1$2$3")
			out = append(out, cleaned)
			continue
		}

		out = append(out, line)
	}

	res.CleanedSrc = strings.Join(out, "\n")
	return res, nil
}

func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, strings.TrimSpace(p))
	}
	return names
}

func parseBindingList(s string) ([]Binding, error) {
	parts := strings.Split(s, ",")
	bindings := make([]Binding, 0, len(parts))
	for _, p := range parts {
		fields := strings.Fields(p)
		switch len(fields) {
		case 1:
			bindings = append(bindings, Binding{Name: fields[0], Alias: fields[0]})
		case 3:
			if fields[1] != "as" {
				return nil, fmt.Errorf("malformed import binding %q", p)
			}
			bindings = append(bindings, Binding{Name: fields[0], Alias: fields[2]})
		default:
			return nil, fmt.Errorf("malformed import binding %q", p)
		}
	}
	return bindings, nil
}
