package selector

import (
	"fmt"
	"sort"
	"strings"
)

// MatchSelection is one raw tuple key plus its child, as supplied to
// NewMatch before conditioning.
type MatchSelection struct {
	RawKey []string
	Child  Child
}

// Match is the algorithmic centerpiece of the package: a multi-field
// weighted winnowing match with ambiguity handling and dynamic sibling
// merge.
type Match struct {
	params   []string
	header   *TreeHeader
	rawKeys  [][]string // pre-substitution, pre-conditioning, for Format/diff display
	condKeys [][]string // post-substitution, post-conditioning, for ordering/equality
	matchers [][]Matcher
	children []Child
}

// NewMatch conditions and sorts selections, failing with KeyArity when
// a key's tuple arity does not equal len(params).
func NewMatch(params []string, selections []MatchSelection, header *TreeHeader) (*Match, error) {
	m := &Match{params: params, header: header}
	subs := Substitutions(nil)
	if header != nil {
		subs = header.Substitutions
	}
	for _, sel := range selections {
		if len(sel.RawKey) != len(params) {
			return nil, newErr(KeyArity, "", "Match key arity %d does not match parameter count %d", len(sel.RawKey), len(params))
		}
		cond := make([]string, len(sel.RawKey))
		matchers := make([]Matcher, len(sel.RawKey))
		for i, field := range sel.RawKey {
			substituted := field
			if i < len(params) {
				substituted = applySubstitution(subs, params[i], field)
			}
			condField := conditionField(substituted)
			cond[i] = condField
			mm, err := NewMatcher(condField)
			if err != nil {
				return nil, err
			}
			matchers[i] = mm
		}
		m.rawKeys = append(m.rawKeys, sel.RawKey)
		m.condKeys = append(m.condKeys, cond)
		m.matchers = append(m.matchers, matchers)
		m.children = append(m.children, sel.Child)
	}
	m.sortInPlace()
	return m, nil
}

func (m *Match) sortInPlace() {
	idx := make([]int, len(m.condKeys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return tupleLess(m.condKeys[idx[i]], m.condKeys[idx[j]]) })
	rawKeys := make([][]string, len(idx))
	condKeys := make([][]string, len(idx))
	matchers := make([][]Matcher, len(idx))
	children := make([]Child, len(idx))
	for i, j := range idx {
		rawKeys[i], condKeys[i], matchers[i], children[i] = m.rawKeys[j], m.condKeys[j], m.matchers[j], m.children[j]
	}
	m.rawKeys, m.condKeys, m.matchers, m.children = rawKeys, condKeys, matchers, children
}

func tupleLess(a, b []string) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func (m *Match) ClassName() string { return "Match" }
func (m *Match) Params() []string   { return m.params }

// fieldDeclaresNA reports whether any selection declares "N/A" for
// parameter index i, which is what permits a lookup header to omit
// that field.
func (m *Match) fieldDeclaresNA(i int) bool {
	for _, cond := range m.condKeys {
		if i < len(cond) && cond[i] == "N/A" {
			return true
		}
	}
	return false
}

// legalValuesForField returns the union of values appearing in keys for
// parameter index i, including substitution targets.
func (m *Match) legalValuesForField(i int) map[string]bool {
	out := map[string]bool{}
	for _, cond := range m.condKeys {
		if i < len(cond) {
			for _, alt := range strings.Split(cond[i], "|") {
				out[alt] = true
			}
		}
	}
	if m.header != nil && m.header.Substitutions != nil && i < len(m.params) {
		for _, v := range m.header.Substitutions[m.params[i]] {
			out[v] = true
		}
	}
	return out
}

func (m *Match) Choose(h Header) (Result, error) {
	for i, p := range m.params {
		if _, ok := h[p]; !ok && !m.fieldDeclaresNA(i) {
			return Result{}, newErr(MissingParameter, "", "Match missing header field %q", p)
		}
	}
	for i, p := range m.params {
		v, ok := h[p]
		if !ok {
			continue
		}
		v = conditionValue(v)
		legal := m.legalValuesForField(i)
		if !legal[v] && !legal["*"] && !legal["N/A"] && v != "*" {
			return Result{}, newErr(BadValue, "", "Match header field %q has disallowed value %q", p, v)
		}
	}

	type survivor struct {
		idx    int
		weight int
	}
	var survivors []survivor
	for idx, matchers := range m.matchers {
		weight := 0
		ok := true
		for i, p := range m.params {
			v := conditionValue(h[p])
			switch matchers[i].Match(v) {
			case outcomeMiss:
				ok = false
			case outcomeFull:
				weight--
			}
			if !ok {
				break
			}
		}
		if ok {
			survivors = append(survivors, survivor{idx: idx, weight: weight})
		}
	}
	if len(survivors) == 0 {
		return Result{}, newErr(NoMatch, "", "no Match selection survived winnowing")
	}

	best := survivors[0].weight
	for _, s := range survivors {
		if s.weight < best {
			best = s.weight
		}
	}
	var group []int
	for _, s := range survivors {
		if s.weight == best {
			group = append(group, s.idx)
		}
	}

	if len(group) == 1 {
		return chooseChild(m.children[group[0]], h)
	}

	allTerminal := true
	allMergeable := true
	var mergeNodes []Node
	for _, idx := range group {
		if n, ok := AsNode(m.children[idx]); ok {
			allTerminal = false
			if !n.mergeable() {
				allMergeable = false
			} else {
				mergeNodes = append(mergeNodes, n)
			}
		}
	}

	if allTerminal {
		values := make([]string, 0, len(group))
		for _, idx := range group {
			v, _ := AsTerminal(m.children[idx])
			values = append(values, v)
		}
		return Result{Values: values}, nil
	}

	if allMergeable && len(mergeNodes) == len(group) {
		merged := mergeNodes[0]
		var err error
		for _, n := range mergeNodes[1:] {
			merged, err = merged.mergeWith(n)
			if err != nil {
				return Result{}, err
			}
		}
		return merged.Choose(h)
	}

	keys := make([]string, 0, len(group))
	for _, idx := range group {
		keys = append(keys, fmt.Sprintf("%v", m.rawKeys[idx]))
	}
	return Result{}, newErr(AmbiguousMatch, "", "ambiguous match among keys %s", strings.Join(keys, ", "))
}

func (m *Match) Entries() []Entry {
	out := make([]Entry, len(m.rawKeys))
	for i := range m.rawKeys {
		out[i] = Entry{
			Display: strings.Join(m.rawKeys[i], ","),
			Key:     strings.Join(m.condKeys[i], ","),
			Child:   m.children[i],
		}
	}
	return out
}

func (m *Match) Validate(legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error {
	merr := &MultiError{}
	report := func(err error) error {
		switch disp {
		case DispositionCollect:
			merr.Append(err)
			return nil
		default:
			return err
		}
	}
	for i, p := range m.params {
		if legal == nil {
			continue
		}
		for _, cond := range m.condKeys {
			if i >= len(cond) {
				continue
			}
			field := cond[i]
			if field == "*" || field == "N/A" || strings.HasPrefix(field, "{") || strings.HasPrefix(field, "(") || strings.HasPrefix(field, "#") || strings.HasPrefix(field, "between ") {
				continue
			}
			for _, alt := range strings.Split(field, "|") {
				if !legal.Contains(p, alt) {
					if err := report(newErr(BadValue, "", "Match key value %q not legal for parameter %q", alt, p)); err != nil {
						return err
					}
				}
			}
		}
	}

	for i := 0; i < len(m.condKeys); i++ {
		for j := i + 1; j < len(m.condKeys); j++ {
			if matchSuperset(m.condKeys[j], m.condKeys[i]) && equalWeight(m.condKeys[i], m.condKeys[j]) {
				w := newWarning("special case: key %v is a strict special case of key %v with equal weight", m.rawKeys[i], m.rawKeys[j])
				if specialCaseIsError {
					if err := report(newErr(ValidationFailure, "", "%s", w.Error())); err != nil {
						return err
					}
				} else if warn != nil {
					warn(w)
				}
			}
		}
	}

	if err := validateChildren(m.Entries(), legal, disp, warn); err != nil {
		if disp == DispositionCollect {
			merr.Append(err)
		} else {
			return err
		}
	}
	return merr.AsError()
}

func (m *Match) mergeable() bool { return false }
func (m *Match) mergeWith(Node) (Node, error) {
	return nil, newErr(AmbiguousMerge, "", "Match does not support merge")
}

func (m *Match) upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error) {
	if len(rawParts) != len(m.params) {
		return nil, newErr(KeyArity, "", "Match expects %d key parts, got %d", len(m.params), len(rawParts))
	}
	subs := Substitutions(nil)
	if m.header != nil {
		subs = m.header.Substitutions
	}
	cond := make([]string, len(rawParts))
	matchers := make([]Matcher, len(rawParts))
	for i, field := range rawParts {
		substituted := applySubstitution(subs, m.params[i], field)
		cond[i] = conditionField(substituted)
		mm, err := NewMatcher(cond[i])
		if err != nil {
			return nil, err
		}
		matchers[i] = mm
	}
	for i, existing := range m.condKeys {
		if tupleEqual(existing, cond) {
			m.children[i] = child
			return m, nil
		}
	}
	m.rawKeys = append(m.rawKeys, append([]string(nil), rawParts...))
	m.condKeys = append(m.condKeys, cond)
	m.matchers = append(m.matchers, matchers)
	m.children = append(m.children, child)
	m.sortInPlace()
	return m, nil
}

func tupleEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// matchSuperset reports position-wise whether a matches every header b
// matches.
func matchSuperset(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		af, bf := a[i], b[i]
		switch {
		case af == bf:
			continue
		case af == "*":
			continue
		case bf == "N/A":
			continue
		case af == "N/A" && bf == "*":
			continue
		case bf == "*":
			return false
		case isAlternationSuperset(af, bf):
			continue
		default:
			return false
		}
	}
	return true
}

// isAlternationSuperset reports whether af's alternation set strictly
// contains bf's.
func isAlternationSuperset(af, bf string) bool {
	aset := splitSet(af)
	bset := splitSet(bf)
	if len(aset) <= len(bset) {
		return false
	}
	for k := range bset {
		if !aset[k] {
			return false
		}
	}
	return true
}

func splitSet(s string) map[string]bool {
	out := map[string]bool{}
	for _, p := range strings.Split(s, "|") {
		out[p] = true
	}
	return out
}

// equalWeight reports whether two keys are weight-equal: position by
// position, no field has exactly one side as "N/A", since that is the
// only thing that can make their weights diverge under a compatible
// header.
func equalWeight(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		aNA := a[i] == "N/A"
		bNA := b[i] == "N/A"
		if aNA != bNA {
			return false
		}
	}
	return true
}
