package selector

import (
	"sort"
	"strings"

	"github.com/kmacdonald-stsci/crds/internal/boundary"
)

// KV is one raw (key, child) pair supplied to a variant constructor,
// before conditioning.
type KV struct {
	Key   string
	Child Child
}

// UseAfter does a binary search over a time-sorted keyset, returning
// the greatest key not exceeding the lookup time.
type UseAfter struct {
	params   []string
	header   *TreeHeader
	raw      []string // display form, ascending
	canon    []string // reformatted "YYYY-MM-DD HH:MM:SS", ascending, parallel to raw
	children []Child
}

// NewUseAfter validates and sorts selections, failing with
// InvalidDateTime if any key does not parse.
func NewUseAfter(params []string, selections []KV, header *TreeHeader) (*UseAfter, error) {
	if len(params) == 0 {
		return nil, newErr(KeyArity, "", "UseAfter requires at least one parameter")
	}
	u := &UseAfter{params: params, header: header}
	for _, sel := range selections {
		canon, err := boundary.ReformatDate(sel.Key)
		if err != nil {
			return nil, wrapErr(InvalidDateTime, "", err, "UseAfter key %q", sel.Key)
		}
		u.raw = append(u.raw, sel.Key)
		u.canon = append(u.canon, canon)
		u.children = append(u.children, sel.Child)
	}
	u.sortInPlace()
	return u, nil
}

func (u *UseAfter) sortInPlace() {
	idx := make([]int, len(u.canon))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return u.canon[idx[i]] < u.canon[idx[j]] })
	raw := make([]string, len(idx))
	canon := make([]string, len(idx))
	children := make([]Child, len(idx))
	for i, j := range idx {
		raw[i], canon[i], children[i] = u.raw[j], u.canon[j], u.children[j]
	}
	u.raw, u.canon, u.children = raw, canon, children
}

func (u *UseAfter) ClassName() string { return "UseAfter" }
func (u *UseAfter) Params() []string  { return u.params }

func (u *UseAfter) lookupKey(h Header) (string, error) {
	parts := make([]string, 0, len(u.params))
	for _, p := range u.params {
		v, ok := h[p]
		if !ok {
			return "", newErr(MissingParameter, "", "UseAfter missing header field %q", p)
		}
		parts = append(parts, v)
	}
	joined := strings.Join(parts, " ")
	canon, err := boundary.ReformatDate(joined)
	if err != nil {
		return "", wrapErr(InvalidDateTime, "", err, "UseAfter lookup value %q", joined)
	}
	return canon, nil
}

// bsearch returns the index of the greatest canon[i] <= lookup, or -1.
func (u *UseAfter) bsearch(lookup string) int {
	// sort.Search finds the first index where canon[i] > lookup.
	i := sort.Search(len(u.canon), func(i int) bool { return u.canon[i] > lookup })
	return i - 1
}

func (u *UseAfter) Choose(h Header) (Result, error) {
	lookup, err := u.lookupKey(h)
	if err != nil {
		return Result{}, err
	}
	i := u.bsearch(lookup)
	if i < 0 {
		return Result{}, newErr(NoUseAfter, "", "lookup time %s precedes all UseAfter keys", lookup)
	}
	return chooseChild(u.children[i], h)
}

func (u *UseAfter) Entries() []Entry {
	out := make([]Entry, len(u.raw))
	for i := range u.raw {
		out[i] = Entry{Display: u.raw[i], Key: u.canon[i], Child: u.children[i]}
	}
	return out
}

func (u *UseAfter) Validate(legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error {
	// Keys were already re-parsed at construction; nothing further to
	// check against legal here since UseAfter keys are dates, not
	// enumerable legal-value sets.
	return validateChildren(u.Entries(), legal, disp, warn)
}

func (u *UseAfter) mergeable() bool { return true }

// mergeWith unions two UseAfter key sets, keeping the lexicographically
// greater child value on collision (the naming convention encodes
// recency in filenames).
func (u *UseAfter) mergeWith(other Node) (Node, error) {
	ou, ok := other.(*UseAfter)
	if !ok {
		if _, isCT := other.(*ClosestTime); isCT {
			return nil, newErr(AmbiguousMerge, "", "ClosestTime does not support merge")
		}
		return nil, newErr(AmbiguousMerge, "", "cannot merge UseAfter with %T", other)
	}
	if !sameParams(u.params, ou.params) {
		return nil, newErr(AmbiguousMerge, "", "UseAfter merge requires identical parameters")
	}
	merged := map[string]KV{}
	for i, c := range u.canon {
		merged[c] = KV{Key: u.raw[i], Child: u.children[i]}
	}
	for i, c := range ou.canon {
		if existing, dup := merged[c]; dup {
			merged[c] = KV{Key: existing.Key, Child: greaterChild(existing.Child, ou.children[i])}
		} else {
			merged[c] = KV{Key: ou.raw[i], Child: ou.children[i]}
		}
	}
	sels := make([]KV, 0, len(merged))
	for _, kv := range merged {
		sels = append(sels, kv)
	}
	return NewUseAfter(u.params, sels, u.header)
}

// greaterChild picks the lexicographically greater of two terminal
// filenames; if either side is a nested Selector rather than a bare
// filename, b wins by construction, since merge always folds the
// earlier-built side (a) into the later one (b).
func greaterChild(a, b Child) Child {
	as, aIsTerm := AsTerminal(a)
	bs, bIsTerm := AsTerminal(b)
	if aIsTerm && bIsTerm {
		if as >= bs {
			return a
		}
		return b
	}
	return b
}

func sameParams(a, b []string) bool {
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

func (u *UseAfter) upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error) {
	if len(rawParts) != len(u.params) {
		return nil, newErr(KeyArity, "", "UseAfter expects %d key parts, got %d", len(u.params), len(rawParts))
	}
	raw := strings.Join(rawParts, " ")
	canon, err := boundary.ReformatDate(raw)
	if err != nil {
		return nil, wrapErr(InvalidDateTime, "", err, "UseAfter modify key %q", raw)
	}
	for i, c := range u.canon {
		if c == canon {
			u.children[i] = child
			return u, nil
		}
	}
	u.raw = append(u.raw, raw)
	u.canon = append(u.canon, canon)
	u.children = append(u.children, child)
	u.sortInPlace()
	return u, nil
}
