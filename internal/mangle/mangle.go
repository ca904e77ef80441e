// Package mangle implements the optional identifier-shortening pass spec
// §6 names alongside the Name Allocator: given the final set of globally
// unique names a bundle assigns, produce a shorter replacement for each,
// without colliding with any name that must survive mangling untouched.
package mangle

import "sort"

// Mode selects how aggressively names are shortened.
type Mode int

const (
	// None leaves every globally unique name exactly as C4 allocated it.
	None Mode = iota
	// All mangles every allocated name, including the entry module's own
	// exports (which, with Mode None or Auto, keep their original spelling
	// since nothing outside the bundle can observe them either way).
	All
	// Auto mangles everything except the entry module's own top-level
	// declarations, matching the "mangle: auto" resolution SPEC_FULL.md
	// records for spec §6's mangle Open Question: a flat bundle has no
	// external consumers, so only the entry module's names are ever worth
	// keeping readable for a human reading the output.
	Auto
)

// alphabet is the base52 digit set used to generate short identifiers:
// letters only, so every generated name is already a valid identifier
// without needing a leading-digit check.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// reserved is the set of base-language keywords a mangled name must never
// collide with.
var reserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "if": true,
	"in": true, "local": true, "nil": true, "not": true, "or": true,
	"repeat": true, "return": true, "then": true, "true": true, "until": true,
	"while": true,
}

// Plan maps every original allocated name to its mangled replacement.
type Plan map[string]string

// Names groups the allocated names a bundle must decide about: All is
// every globally unique name from C4, Keep is the subset (entry-module
// declarations, for Auto) that must pass through unmangled.
type Names struct {
	All  []string
	Keep map[string]bool
}

// Build produces a mangling Plan for the given mode. Names in n.Keep are
// never mangled under Auto; under All every name in n.All is a candidate;
// under None the Plan is empty (every Item keeps its allocated name).
func Build(mode Mode, n Names) Plan {
	plan := make(Plan)
	if mode == None {
		return plan
	}

	candidates := make([]string, 0, len(n.All))
	for _, name := range n.All {
		if mode == Auto && n.Keep[name] {
			continue
		}
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	taken := make(map[string]bool, len(n.All))
	for _, name := range n.All {
		if mode == Auto && n.Keep[name] {
			taken[name] = true
		}
	}

	next := newGenerator()
	for _, name := range candidates {
		short := next.nextUnused(taken, reserved)
		taken[short] = true
		plan[name] = short
	}
	return plan
}

// Apply resolves name through the plan, returning it unchanged if the plan
// has no entry for it (e.g. the name was kept under Auto, or mode is None).
func (p Plan) Apply(name string) string {
	if short, ok := p[name]; ok {
		return short
	}
	return name
}

// generator produces the base52 sequence a, b, ..., Z, aa, ab, ... that
// Build hands out to the candidate names in sorted-name order.
type generator struct {
	counter int
}

func newGenerator() *generator { return &generator{} }

func (g *generator) nextUnused(taken, reserved map[string]bool) string {
	for {
		name := encode(g.counter)
		g.counter++
		if taken[name] || reserved[name] {
			continue
		}
		return name
	}
}

// encode renders i (0-based) as a base52 string over alphabet, with no
// leading-zero ambiguity: 0->"a", 51->"Z", 52->"aa", etc.
func encode(i int) string {
	base := len(alphabet)
	digits := []byte{alphabet[i%base]}
	i = i / base
	for i > 0 {
		i--
		digits = append([]byte{alphabet[i%base]}, digits...)
		i = i / base
	}
	return string(digits)
}
