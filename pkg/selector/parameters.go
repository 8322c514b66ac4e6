package selector

// Parameters is the two-phase construction shell: rule authors build up
// a tree of raw selections with no header in hand, then call
// Instantiate once the tree-wide TreeHeader (and so each level's
// parameter list and class) is known. This lets an entire rule file be
// parsed bottom-up before any Selector-specific validation (date
// parsing, matcher compilation) can run.
type Parameters struct {
	// ClassName overrides the tree-wide classes[level] for this node,
	// when a rule file names its own selector class per level.
	ClassName string
	entries   []paramEntry
	dupWarned bool
}

type paramEntry struct {
	rawKey []string // len 1 for everything but Match; len(params) for Match
	child  interface{}
}

// NewParametersFromPairs builds a Parameters shell from an explicitly
// ordered list of (rawKey, child) pairs, where rawKey is a one-element
// slice for every variant except Match (where it holds one field per
// parameter). Because
// the input is an ordered list rather than a map, duplicate keys can be
// detected and are reported through warn.
func NewParametersFromPairs(pairs []RawPair, warn func(Warning)) *Parameters {
	p := &Parameters{}
	seen := map[string]bool{}
	for _, pair := range pairs {
		key := joinRawKey(pair.RawKey)
		if seen[key] && warn != nil {
			warn(newWarning("duplicate key %v overrides a previous selection at this level", pair.RawKey))
		}
		seen[key] = true
		p.entries = append(p.entries, paramEntry{rawKey: pair.RawKey, child: pair.Child})
	}
	return p
}

// NewParametersFromMap builds a Parameters shell from a map of single-
// field raw keys to children. Go maps cannot themselves contain
// duplicate keys, so unlike NewParametersFromPairs this constructor has
// no duplicates to warn about.
func NewParametersFromMap(m map[string]interface{}) *Parameters {
	p := &Parameters{}
	for k, v := range m {
		p.entries = append(p.entries, paramEntry{rawKey: []string{k}, child: v})
	}
	return p
}

// RawPair is one (key, child) pair for NewParametersFromPairs. Child is
// either a terminal string or a nested *Parameters.
type RawPair struct {
	RawKey []string
	Child  interface{}
}

func joinRawKey(parts []string) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "\x00"
		}
		s += p
	}
	return s
}

// Instantiate performs the bottom-up build: level is this shell's depth
// in th.Parkey/th.Classes, used to look up its own parameter list and
// (absent a per-level ClassName override) its Selector class.
func (p *Parameters) Instantiate(th *TreeHeader, level int) (Node, error) {
	className := p.ClassName
	if className == "" {
		classes := th.DefaultClasses()
		if level < len(classes) {
			className = classes[level]
		} else if len(classes) > 0 {
			className = classes[len(classes)-1]
		} else {
			className = "Match"
		}
	}
	var params []string
	if th != nil && level < len(th.Parkey) {
		params = th.Parkey[level]
	}

	var kvs []KV
	var matches []MatchSelection
	for _, e := range p.entries {
		child, err := instantiateChild(e.child, th, level+1)
		if err != nil {
			return nil, err
		}
		if className == "Match" {
			matches = append(matches, MatchSelection{RawKey: e.rawKey, Child: child})
		} else {
			if len(e.rawKey) != 1 {
				return nil, newErr(KeyArity, "", "%s requires a single-field key, got %v", className, e.rawKey)
			}
			kvs = append(kvs, KV{Key: e.rawKey[0], Child: child})
		}
	}
	return newFromSelections(className, params, kvs, matches, th)
}

func instantiateChild(raw interface{}, th *TreeHeader, level int) (Child, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case *Parameters:
		return v.Instantiate(th, level)
	default:
		return nil, newErr(Modification, "", "unsupported Parameters child type %T", raw)
	}
}
