package selector

import (
	"sort"
	"strconv"
)

// Bracket has one numeric parameter with ascending float keys; lookup
// returns the pair (below, at-or-above) straddling the lookup value.
type Bracket struct {
	param    string
	header   *TreeHeader
	raw      []string
	keys     []float64
	children []Child
}

// NewBracket validates every key as a parseable float and sorts
// ascending.
func NewBracket(param string, selections []KV, header *TreeHeader) (*Bracket, error) {
	b := &Bracket{param: param, header: header}
	for _, sel := range selections {
		f, err := strconv.ParseFloat(sel.Key, 64)
		if err != nil {
			return nil, wrapErr(InvalidNumber, "", err, "Bracket key %q", sel.Key)
		}
		b.raw = append(b.raw, sel.Key)
		b.keys = append(b.keys, f)
		b.children = append(b.children, sel.Child)
	}
	b.sortInPlace()
	return b, nil
}

func (b *Bracket) sortInPlace() {
	idx := make([]int, len(b.keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return b.keys[idx[i]] < b.keys[idx[j]] })
	raw := make([]string, len(idx))
	keys := make([]float64, len(idx))
	children := make([]Child, len(idx))
	for i, j := range idx {
		raw[i], keys[i], children[i] = b.raw[j], b.keys[j], b.children[j]
	}
	b.raw, b.keys, b.children = raw, keys, children
}

func (b *Bracket) ClassName() string { return "Bracket" }
func (b *Bracket) Params() []string   { return []string{b.param} }

func (b *Bracket) lookupValue(h Header) (float64, error) {
	raw, ok := h[b.param]
	if !ok {
		return 0, newErr(MissingParameter, "", "Bracket missing header field %q", b.param)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, wrapErr(InvalidNumber, "", err, "Bracket header value %q", raw)
	}
	return f, nil
}

// straddle returns the indices (below, atOrAbove), covering the four
// cases: value below every key, above every key, exactly on a key, or
// strictly between two keys.
func (b *Bracket) straddle(value float64) (int, int) {
	n := len(b.keys)
	if value < b.keys[0] {
		return 0, 0
	}
	if value > b.keys[n-1] {
		return n - 1, n - 1
	}
	// first index with key >= value
	i := sort.Search(n, func(i int) bool { return b.keys[i] >= value })
	if b.keys[i] == value {
		return i, i
	}
	return i - 1, i
}

func (b *Bracket) Choose(h Header) (Result, error) {
	value, err := b.lookupValue(h)
	if err != nil {
		return Result{}, err
	}
	if len(b.keys) == 0 {
		return Result{}, newErr(NoMatch, "", "Bracket has no selections")
	}
	lo, hi := b.straddle(value)
	loRes, err := chooseChild(b.children[lo], h)
	if err != nil {
		return Result{}, err
	}
	hiRes, err := chooseChild(b.children[hi], h)
	if err != nil {
		return Result{}, err
	}
	loVal, _ := loRes.Single()
	hiVal, _ := hiRes.Single()
	return pairResult(loVal, hiVal), nil
}

func (b *Bracket) Entries() []Entry {
	out := make([]Entry, len(b.raw))
	for i := range b.raw {
		out[i] = Entry{Display: b.raw[i], Key: strconv.FormatFloat(b.keys[i], 'g', -1, 64), Child: b.children[i]}
	}
	return out
}

func (b *Bracket) Validate(legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error {
	return validateChildren(b.Entries(), legal, disp, warn)
}

func (b *Bracket) mergeable() bool { return false }
func (b *Bracket) mergeWith(Node) (Node, error) {
	return nil, newErr(AmbiguousMerge, "", "Bracket does not support merge")
}

func (b *Bracket) upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error) {
	if len(rawParts) != 1 {
		return nil, newErr(KeyArity, "", "Bracket expects 1 key part, got %d", len(rawParts))
	}
	f, err := strconv.ParseFloat(rawParts[0], 64)
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "Bracket modify key %q", rawParts[0])
	}
	for i, k := range b.keys {
		if k == f {
			b.children[i] = child
			return b, nil
		}
	}
	b.raw = append(b.raw, rawParts[0])
	b.keys = append(b.keys, f)
	b.children = append(b.children, child)
	b.sortInPlace()
	return b, nil
}
