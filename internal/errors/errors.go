// Package errors defines the closed set of fatal error kinds the bundler
// can raise (spec §7), in the same code-taxonomy style the teacher project
// uses for its own compiler phases: a constant block and a registry mapping
// each code to its phase and description.
package errors

import "fmt"

// Error codes, one per spec §7 error kind plus NameExhaustion from §9's
// Open Questions. Lexer and parser failures are reported as CodeParseError.
const (
	CodeUnresolvedImport = "BND001"
	CodeReadFailure      = "BND002"
	CodeExtractError     = "BND003"
	CodeParseError       = "BND004"
	CodeReparseError     = "BND005"
	CodeNameExhaustion   = "BND006"
)

// Info describes one error code for diagnostics/tooling.
type Info struct {
	Code        string
	Phase       string
	Description string
}

// Registry maps every code to its Info.
var Registry = map[string]Info{
	CodeUnresolvedImport: {CodeUnresolvedImport, "resolve", "import specifier did not match any candidate file"},
	CodeReadFailure:      {CodeReadFailure, "load", "module source file could not be read"},
	CodeExtractError:     {CodeExtractError, "extract", "import/export surface syntax is malformed"},
	CodeParseError:       {CodeParseError, "parse", "base-language parser rejected the cleaned source"},
	CodeReparseError:     {CodeReparseError, "minify", "beautified output failed to re-parse during the minify pipeline"},
	CodeNameExhaustion:   {CodeNameExhaustion, "allocate", "conflict-cascade renaming did not stabilize"},
}

// BundleError is the error type every coded fatal condition (the codes
// above) is reported as; the allocator's error for an import binding with
// no matching export is a plain error. It carries a code, the offending file (spec §7: "errors...
// surface with the offending file path prepended"), and a message.
type BundleError struct {
	Code    string
	File    string
	Message string
}

func (e *BundleError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UnresolvedImport builds the error raised when the Path Resolver (C1)
// exhausts its candidate list.
func UnresolvedImport(specifier, importer string) error {
	return &BundleError{
		Code:    CodeUnresolvedImport,
		File:    importer,
		Message: fmt.Sprintf("cannot resolve import %q", specifier),
	}
}

// ReadFailure wraps a filesystem error encountered while loading a module.
func ReadFailure(file string, cause error) error {
	return &BundleError{Code: CodeReadFailure, File: file, Message: cause.Error()}
}

// ExtractError wraps a surface-syntax error from the import/export extractor.
func ExtractError(file string, cause error) error {
	return &BundleError{Code: CodeExtractError, File: file, Message: cause.Error()}
}

// ParseError wraps a base-language parse failure.
func ParseError(file string, cause error) error {
	return &BundleError{Code: CodeParseError, File: file, Message: cause.Error()}
}

// ReparseError is raised when the minify pipeline's re-parse of beautified
// output fails — per spec §7, this indicates a rewriter bug, not bad input.
func ReparseError(file string, cause error) error {
	return &BundleError{Code: CodeReparseError, File: file, Message: cause.Error()}
}

// NameExhaustion is raised when the conflict-cascade loop of C4 does not
// stabilize within the configured iteration bound (spec §9 Open Questions).
func NameExhaustion(name string) error {
	return &BundleError{
		Code:    CodeNameExhaustion,
		Message: fmt.Sprintf("could not find a stable unique name derived from %q", name),
	}
}
