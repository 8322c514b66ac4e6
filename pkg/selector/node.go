// Package selector implements the reference-file selection engine: a
// composable, nestable family of decision nodes. The tree is built once
// and is a pure, deterministic function of a runtime observation header
// thereafter.
package selector

// Child is either a terminal reference filename (string) or another
// Node.
type Child interface{}

// AsNode reports whether c holds a nested Selector.
func AsNode(c Child) (Node, bool) {
	n, ok := c.(Node)
	return n, ok
}

// AsTerminal reports whether c holds a terminal filename.
func AsTerminal(c Child) (string, bool) {
	s, ok := c.(string)
	return s, ok
}

// Result is what Choose returns: almost always a single filename, a
// pair for Bracket's straddling lookup, or (rarely) two or more when
// an unresolved Match ambiguity is handed back as a list of terminal
// survivors because every surviving child was itself a terminal value.
type Result struct {
	Values []string
}

// Single returns the lone value and true when len(Values) == 1.
func (r Result) Single() (string, bool) {
	if len(r.Values) == 1 {
		return r.Values[0], true
	}
	return "", false
}

func oneResult(v string) Result  { return Result{Values: []string{v}} }
func pairResult(a, b string) Result {
	if a == b {
		return Result{Values: []string{a}}
	}
	return Result{Values: []string{a, b}}
}

// Entry is the generic, class-agnostic view of one selection used by
// the shared base operations: ReferenceNames, Format and Difference
// walk a tree through Entries() rather than reaching into each
// variant's typed selection list. FileMatches (for Match, UseAfter and
// ClosestTime) and Modify's key lookup read the typed fields directly.
type Entry struct {
	// Display is the pre-conditioning ("raw") form, preserved for
	// Format and for re-emitting edited rule trees.
	Display string
	// Key is the canonical comparison form used for equality during
	// Modify and Difference.
	Key   string
	Child Child
}

// Node is the shared interface every Selector variant implements.
// Generic operations are pattern matches over this interface rather
// than virtual dispatch spread across six concrete types.
type Node interface {
	// ClassName is the short name used by the variant registry: "Match",
	// "UseAfter", "SelectVersion", "ClosestTime", "GeometricallyNearest",
	// "Bracket".
	ClassName() string

	// Params returns this node's ordered, non-empty parameter list,
	// empty only for the degenerate zero-key Match case.
	Params() []string

	// Choose implements this node's matching discipline.
	Choose(h Header) (Result, error)

	// Entries exposes this node's selections in the generic Entry
	// shape, ascending per ordering rule for this variant.
	Entries() []Entry

	// Validate checks this node's own keys (and, recursively, its
	// children) against legal, collecting or raising per disp.
	// specialCaseIsError escalates the special-case detector from a
	// warning to a hard error, driven by the embedder's configured
	// verbosity threshold.
	Validate(legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error

	// mergeable reports whether this variant supports dynamic sibling
	// merge.
	mergeable() bool

	// mergeWith merges other into a new node of the same class,
	// returning AmbiguousMerge when mergeable() is false.
	mergeWith(other Node) (Node, error)

	// upsertRaw inserts or replaces the selection keyed by the raw
	// (pre-conditioning) key parts of a single level, used by Modify. It
	// returns the resulting node (same instance, mutated, unless an
	// immutable variant needs to return a copy).
	upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error)
}

// Disposition mirrors config.Disposition without pkg/selector importing
// internal/config, keeping the engine free of a dependency on its own
// embedder's configuration package.
type Disposition string

const (
	DispositionRaise   Disposition = "raise"
	DispositionCollect Disposition = "collect"
	DispositionDebug   Disposition = "debug"
)
