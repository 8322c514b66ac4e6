package selector

import (
	"sort"
	"strconv"
)

// GeometricallyNearest has one numeric parameter; lookup returns the
// selection whose key has minimum |key - value|, ties broken by lowest
// key.
type GeometricallyNearest struct {
	param    string
	header   *TreeHeader
	raw      []string
	keys     []float64
	children []Child
}

// NewGeometricallyNearest validates every key as a parseable float
// (InvalidNumber) and sorts ascending.
func NewGeometricallyNearest(param string, selections []KV, header *TreeHeader) (*GeometricallyNearest, error) {
	g := &GeometricallyNearest{param: param, header: header}
	for _, sel := range selections {
		f, err := strconv.ParseFloat(sel.Key, 64)
		if err != nil {
			return nil, wrapErr(InvalidNumber, "", err, "GeometricallyNearest key %q", sel.Key)
		}
		g.raw = append(g.raw, sel.Key)
		g.keys = append(g.keys, f)
		g.children = append(g.children, sel.Child)
	}
	g.sortInPlace()
	return g, nil
}

func (g *GeometricallyNearest) sortInPlace() {
	idx := make([]int, len(g.keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return g.keys[idx[i]] < g.keys[idx[j]] })
	raw := make([]string, len(idx))
	keys := make([]float64, len(idx))
	children := make([]Child, len(idx))
	for i, j := range idx {
		raw[i], keys[i], children[i] = g.raw[j], g.keys[j], g.children[j]
	}
	g.raw, g.keys, g.children = raw, keys, children
}

func (g *GeometricallyNearest) ClassName() string { return "GeometricallyNearest" }
func (g *GeometricallyNearest) Params() []string   { return []string{g.param} }

func (g *GeometricallyNearest) lookupValue(h Header) (float64, error) {
	raw, ok := h[g.param]
	if !ok {
		return 0, newErr(MissingParameter, "", "GeometricallyNearest missing header field %q", g.param)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, wrapErr(InvalidNumber, "", err, "GeometricallyNearest header value %q", raw)
	}
	return f, nil
}

func (g *GeometricallyNearest) closestIndex(value float64) int {
	best := -1
	var bestDelta float64
	for i, k := range g.keys {
		delta := k - value
		if delta < 0 {
			delta = -delta
		}
		if best == -1 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	return best
}

func (g *GeometricallyNearest) Choose(h Header) (Result, error) {
	value, err := g.lookupValue(h)
	if err != nil {
		return Result{}, err
	}
	i := g.closestIndex(value)
	if i < 0 {
		return Result{}, newErr(NoMatch, "", "GeometricallyNearest has no selections")
	}
	return chooseChild(g.children[i], h)
}

func (g *GeometricallyNearest) Entries() []Entry {
	out := make([]Entry, len(g.raw))
	for i := range g.raw {
		out[i] = Entry{Display: g.raw[i], Key: strconv.FormatFloat(g.keys[i], 'g', -1, 64), Child: g.children[i]}
	}
	return out
}

func (g *GeometricallyNearest) Validate(legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error {
	return validateChildren(g.Entries(), legal, disp, warn)
}

func (g *GeometricallyNearest) mergeable() bool { return false }
func (g *GeometricallyNearest) mergeWith(Node) (Node, error) {
	return nil, newErr(AmbiguousMerge, "", "GeometricallyNearest does not support merge")
}

func (g *GeometricallyNearest) upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error) {
	if len(rawParts) != 1 {
		return nil, newErr(KeyArity, "", "GeometricallyNearest expects 1 key part, got %d", len(rawParts))
	}
	f, err := strconv.ParseFloat(rawParts[0], 64)
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "GeometricallyNearest modify key %q", rawParts[0])
	}
	for i, k := range g.keys {
		if k == f {
			g.children[i] = child
			return g, nil
		}
	}
	g.raw = append(g.raw, rawParts[0])
	g.keys = append(g.keys, f)
	g.children = append(g.children, child)
	g.sortInPlace()
	return g, nil
}
