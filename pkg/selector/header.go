package selector

// Header is a runtime observation header: a mapping from
// instrument/observation parameter names to their string values.
type Header map[string]string

// LegalValues declares, per parameter name, the set of values a header
// field or rule key is allowed to take. Validation checks against this map.
type LegalValues map[string][]string

// Contains reports whether value (or its ".0"-stripped form) is among
// the legal values declared for key, comparing ".0"-stripped forms on
// both sides,
// accommodating float/int presentation drift between a rule file's
// authored values and a lookup header.
func (lv LegalValues) Contains(key, value string) bool {
	values, ok := lv[key]
	if !ok {
		return false
	}
	stripped := stripTrailingZero(value)
	for _, v := range values {
		if v == value || v == stripped || stripTrailingZero(v) == stripped {
			return true
		}
	}
	return false
}

// Substitutions maps a parameter name to a value-rewrite table, applied
// to raw keys before conditioning.
type Substitutions map[string]map[string]string

// TreeHeader is the shared per-tree metadata:
// parkey (per-level parameter lists), optional classes (per-level
// Selector variant names consulted by Modify), optional substitutions,
// and the observatory name used only as a class-list fallback.
type TreeHeader struct {
	Parkey        [][]string
	Classes       []string
	Substitutions Substitutions
	Observatory   string
}

// DefaultClasses returns h.Classes, or the observatory-keyed fallback
// when Classes is empty: ("Match", "UseAfter") for "hst", ("Match",)
// for "jwst" and anything else.
func (h *TreeHeader) DefaultClasses() []string {
	if h == nil || len(h.Classes) > 0 {
		if h == nil {
			return []string{"Match"}
		}
		return h.Classes
	}
	if h.Observatory == "hst" {
		return []string{"Match", "UseAfter"}
	}
	return []string{"Match"}
}

// Path identifies a position in a Selector tree, built up as
// (parameter_name, key_field) pairs from the root down, used by
// FileMatches and Difference.
type Path []PathStep

// PathStep is one level of a Path.
type PathStep struct {
	Parameter string
	Key       string
}

// Append returns a new Path with step appended, leaving p untouched —
// Path values are shared across sibling recursive calls so they must
// never be mutated in place.
func (p Path) Append(step PathStep) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, step)
}

func (p Path) String() string {
	s := ""
	for i, step := range p {
		if i > 0 {
			s += " / "
		}
		s += step.Parameter + "=" + step.Key
	}
	return s
}
