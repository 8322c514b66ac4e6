package selector

import (
	"strconv"

	"github.com/kmacdonald-stsci/crds/internal/boundary"
)

func reformatJoined(s string) (string, error) {
	canon, err := boundary.ReformatDate(s)
	if err != nil {
		return "", wrapErr(InvalidDateTime, "", err, "modify date key %q", s)
	}
	return canon, nil
}

func parseNumericKey(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, wrapErr(InvalidNumber, "", err, "modify numeric key %q", s)
	}
	return f, nil
}

// Modify inserts or replaces the selection reached by header: read the
// node's own parameter list, form a raw key from header, and either
// recurse into an existing nested selection, replace an existing
// terminal (or a node with no classes left to descend through, treated
// as a replace), or build a brand new tail of selectors down to a
// terminal value when no selection at this level matches the header
// yet.
func Modify(root Node, header Header, value string, legal LegalValues, th *TreeHeader) (Node, error) {
	var parkey [][]string
	var classes []string
	if th != nil {
		parkey = th.Parkey
		classes = th.DefaultClasses()
	}
	// The root's own level has already been consumed by root's
	// construction; remaining parkey/classes describe levels below it.
	if len(parkey) > 0 {
		parkey = parkey[1:]
	}
	if len(classes) > 0 {
		classes = classes[1:]
	}
	return modifyNode(root, header, value, legal, parkey, classes, th)
}

func modifyNode(node Node, header Header, value string, legal LegalValues, remainingParkey [][]string, remainingClasses []string, th *TreeHeader) (Node, error) {
	p0 := node.Params()
	rawParts := make([]string, len(p0))
	for i, p := range p0 {
		v, ok := header[p]
		if !ok {
			return nil, newErr(MissingParameter, "", "modify: header missing field %q", p)
		}
		if legal != nil {
			if values, declared := legal[p]; declared && len(values) > 0 && !legal.Contains(p, v) {
				return nil, newErr(BadValue, "", "modify: value %q is not legal for field %q", v, p)
			}
		}
		rawParts[i] = v
	}

	existing, err := findRaw(node, rawParts)
	if err != nil {
		return nil, err
	}

	childParkey := remainingParkey
	if len(childParkey) > 0 {
		childParkey = childParkey[1:]
	}
	childClasses := remainingClasses
	if len(childClasses) > 0 {
		childClasses = childClasses[1:]
	}

	if existing != nil {
		if childNode, ok := AsNode(existing); ok && len(remainingClasses) > 0 {
			newChild, err := modifyNode(childNode, header, value, legal, childParkey, childClasses, th)
			if err != nil {
				return nil, err
			}
			return node.upsertRaw(rawParts, newChild, legal)
		}
		// Either a terminal value, or a nested Selector with no further
		// classes declared to descend through: both are replaced outright.
		return node.upsertRaw(rawParts, value, legal)
	}

	tail, err := buildMissingTail(remainingClasses, remainingParkey, header, legal, value, th)
	if err != nil {
		return nil, err
	}
	return node.upsertRaw(rawParts, tail, legal)
}

// buildMissingTail constructs, innermost-first, the chain of new
// Selector levels needed to reach value when no existing selection at
// the current level matched the header.
func buildMissingTail(classes []string, parkeyLevels [][]string, header Header, legal LegalValues, value string, th *TreeHeader) (Child, error) {
	if len(classes) == 0 {
		return value, nil
	}
	inner, err := buildMissingTail(classes[1:], tailParkey(parkeyLevels), header, legal, value, th)
	if err != nil {
		return nil, err
	}
	var levelParams []string
	if len(parkeyLevels) > 0 {
		levelParams = parkeyLevels[0]
	}
	rawParts := make([]string, len(levelParams))
	for i, p := range levelParams {
		v, ok := header[p]
		if !ok {
			return nil, newErr(MissingParameter, "", "modify: header missing field %q while building new level", p)
		}
		rawParts[i] = v
	}
	node, err := newEmpty(classes[0], levelParams, th)
	if err != nil {
		return nil, err
	}
	return node.upsertRaw(rawParts, inner, legal)
}

func tailParkey(parkey [][]string) [][]string {
	if len(parkey) == 0 {
		return nil
	}
	return parkey[1:]
}

// findRaw looks up the existing child keyed by rawParts at node's own
// level without mutating it, by comparing each variant's stored keys
// against rawParts after the same conditioning/parsing that variant's
// upsertRaw would apply. Returns a
// nil Child (not an error) when no selection matches yet.
func findRaw(node Node, rawParts []string) (Child, error) {
	switch n := node.(type) {
	case *Match:
		subs := Substitutions(nil)
		if n.header != nil {
			subs = n.header.Substitutions
		}
		cond := make([]string, len(rawParts))
		for i, field := range rawParts {
			if i >= len(n.params) {
				break
			}
			cond[i] = conditionField(applySubstitution(subs, n.params[i], field))
		}
		for i, existing := range n.condKeys {
			if tupleEqual(existing, cond) {
				return n.children[i], nil
			}
		}
		return nil, nil
	case *UseAfter:
		return findDateKeyed(n.params, n.canon, n.children, rawParts)
	case *ClosestTime:
		return findDateKeyed(n.params, n.canon, n.children, rawParts)
	case *GeometricallyNearest:
		return findNumericKeyed(n.keys, n.children, rawParts)
	case *Bracket:
		return findNumericKeyed(n.keys, n.children, rawParts)
	case *SelectVersion:
		if len(rawParts) != 1 {
			return nil, newErr(KeyArity, "", "SelectVersion expects 1 key part, got %d", len(rawParts))
		}
		for i, raw := range n.raw {
			if raw == rawParts[0] {
				return n.children[i], nil
			}
		}
		return nil, nil
	default:
		return nil, newErr(Modification, "", "modify: unsupported Selector class %q", node.ClassName())
	}
}

func findDateKeyed(params, canon []string, children []Child, rawParts []string) (Child, error) {
	if len(rawParts) != len(params) {
		return nil, newErr(KeyArity, "", "expects %d key parts, got %d", len(params), len(rawParts))
	}
	joined := rawParts[0]
	for _, p := range rawParts[1:] {
		joined += " " + p
	}
	canonicalized, err := reformatJoined(joined)
	if err != nil {
		return nil, err
	}
	for i, c := range canon {
		if c == canonicalized {
			return children[i], nil
		}
	}
	return nil, nil
}

func findNumericKeyed(keys []float64, children []Child, rawParts []string) (Child, error) {
	if len(rawParts) != 1 {
		return nil, newErr(KeyArity, "", "expects 1 key part, got %d", len(rawParts))
	}
	f, err := parseNumericKey(rawParts[0])
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		if k == f {
			return children[i], nil
		}
	}
	return nil, nil
}
